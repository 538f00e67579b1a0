/*
Package errors gives every failure a registered kind with an ABCI code.

Return one of the kinds declared here, or one registered by an extension,
wrapped with whatever context helps:

	return errors.Wrapf(errors.ErrNotFound, "escrow %s", addr)

Callers test the kind with Is, no matter how many times it was wrapped:

	if errors.ErrNotFound.Is(err) { ... }

The first wrap records a stack trace, printed with %+v. ABCIInfo turns an
error into the code and log of a response and ABCIError rebuilds a
matching error on the client side.
*/
package errors
