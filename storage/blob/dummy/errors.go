package dummyblob

import "github.com/pkg/errors"

var ErrWriteFailed = errors.New("write failed")
