package io

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Image errors
	ErrRomSize = errors.New(f("rom image exceeds memory"))
)
