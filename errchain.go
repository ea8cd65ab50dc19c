package sharedlog

import (
	stderrs "errors"

	smerrors "github.com/Station-Manager/errors"
)

// buildErrorChain walks an error's cause chain and returns the messages from outermost
// to innermost. Station-Manager DetailedError links are annotated with their op.
//
// The traversal prefers DetailedError.Cause() and falls back to stdlib errors.Unwrap.
// It guards against excessive depth and repeated messages to avoid cycles.
func buildErrorChain(err error) []string {
	const maxDepth = 50
	var chain []string
	seen := map[string]bool{}

	for visited := 0; err != nil && visited < maxDepth; visited++ {
		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			msg := dErr.Error()
			if op := string(dErr.Op()); op != emptyString {
				msg = op + ": " + msg
			}
			chain = append(chain, msg)
			err = dErr.Cause()
			continue
		}

		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		err = stderrs.Unwrap(err)
	}
	return chain
}
