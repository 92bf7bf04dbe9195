package io

import (
	"errors"

	"github.com/ezrec/ucpu/translate"
)

var f = translate.From

var (
	// Port errors
	ErrInputClosed = errors.New(f("input closed"))
	ErrQueueEmpty  = errors.New(f("input queue empty"))
	ErrAborted     = errors.New(f("input aborted"))

	// Value list errors
	ErrValueInvalid = errors.New(f("input value invalid"))
)
