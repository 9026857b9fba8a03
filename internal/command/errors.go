package command

import "errors"

var (
	ErrTooFewArguments  = errors.New("the input text has too few parameters")
	ErrTooManyArguments = errors.New("the input text has too many parameters")
	ErrBadArgument      = errors.New("failed to parse argument")
	ErrMentionRequired  = errors.New("please mention a user")
	ErrUserNotFound     = errors.New("user not found")
	ErrGuildOnly        = errors.New("this command only works inside a server")
	ErrInternal         = errors.New("internal error")

	// ErrSilent marks failures the router logs but does not answer.
	ErrSilent = errors.New("no reply")
)

// exactlyOne returns the single argument a command takes.
func exactlyOne(args []string) (string, error) {
	switch {
	case len(args) == 0:
		return "", ErrTooFewArguments
	case len(args) > 1:
		return "", ErrTooManyArguments
	}
	return args[0], nil
}

// optionalOne returns the argument if one was given.
func optionalOne(args []string) (string, bool, error) {
	switch len(args) {
	case 0:
		return "", false, nil
	case 1:
		return args[0], true, nil
	}
	return "", false, ErrTooManyArguments
}
