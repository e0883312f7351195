package extract

import "errors"

var errEmpty = errors.New("completion contained no text")
