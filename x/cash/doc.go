/*
Package cash defines a simple implementation of moving value
between wallets.

Every wallet holds a single unsigned balance that may never go below
zero or overflow. Thus, this implementation is referred to as cash.
Simple and safe.
*/
package cash
