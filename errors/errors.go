// The errors package provides additional error primitives, used mainly to
// collect the non-fatal warnings produced by codecs.
package errors

import (
	"errors"
	"strconv"
	"strings"
)

func New(text string) error {
	return errors.New(text)
}

// List is a list of errors.
type List []error

// Error formats the list by placing each message on its own line. Each
// produced line, including lines within messages, is prefixed with a tab.
func (errs List) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	}
	var buf strings.Builder
	buf.WriteString(strconv.Itoa(len(errs)))
	buf.WriteString(" errors:")
	for _, err := range errs {
		buf.WriteString("\n\t")
		buf.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n\t"))
	}
	return buf.String()
}

// Is reports whether any error in the list matches target.
func (errs List) Is(target error) bool {
	for _, err := range errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Unwrap returns the errors in the list.
func (errs List) Unwrap() []error {
	return errs
}

// Append returns errs with each non-nil err appended to it.
func (errs List) Append(err ...error) List {
	for _, err := range err {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Return prepares errs to be returned by a function by returning nil if errs is
// empty.
func (errs List) Return() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Union combines a number of errors into one List. Any errs that are Lists
// are flattened. Returns nil if all errs are nil or empty.
func Union(errs ...error) error {
	var list List
	for _, err := range errs {
		switch err := err.(type) {
		case nil:
		case List:
			list = list.Append(err...)
		default:
			list = append(list, err)
		}
	}
	return list.Return()
}

// Flatten returns the errors contained in err. A nil err returns nil, and an
// err that is not a List returns a list containing only err.
func Flatten(err error) List {
	switch err := err.(type) {
	case nil:
		return nil
	case List:
		return err
	}
	return List{err}
}
