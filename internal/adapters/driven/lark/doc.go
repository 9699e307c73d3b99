// Package lark implements the platform client against the Feishu and
// LarkSuite open APIs. The two regions share one wire protocol; only
// the API base differs, so a single client serves both.
//
// Every non-zero platform status code is translated into a typed
// domain error at this boundary. Nothing above this package parses
// platform envelopes.
package lark
