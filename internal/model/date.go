package model

import "github.com/rotisserie/eris"

// DateLayout is the ISO date format used in requests and result files
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned for a date that is not today, tomorrow or YYYY-MM-DD
var ErrInvalidDate = eris.New("invalid date: use today, tomorrow or YYYY-MM-DD")
