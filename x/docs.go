/*
Package x contains the extensions of the escrow chain.

Extensions implement common functionality (Handler, Decorator,
Initializer, etc.) and are combined together in cmd/escrowd to
construct the application. This package only holds what they
share, such as the Authenticator interface.
*/
package x
