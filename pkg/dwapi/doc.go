// Package dwapi provides types, parsers, and helpers for working with the
// DocuWare Platform REST API.
//
// # Overview
//
// The platform does not publish a fixed URL scheme. Every response advertises
// its neighborhood as HATEOAS links ({rel, href} pairs) and as named URI
// templates ("resource patterns") with {placeholder} tokens. This package
// holds the pieces a navigation client is built from: the case-insensitive
// ordered container used for every HTTP-derived table (CIDict), the link and
// pattern tables (Endpoints, Resources, ResourcePattern), the hand-written
// parsers for Content-Disposition header values and search-condition
// expressions, the error taxonomy, and the configuration and client
// interfaces. A concrete client is constructed by the dwclient package, which
// wires transport, authentication, and the platform root discovery.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/docutrack-io/dwapi-client/pkg/dwapi"
//	  "github.com/docutrack-io/dwapi-client/pkg/dwclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := dwclient.New(ctx, &dwapi.Config{
//	    PlatformURL: "https://acme.docuware.cloud",
//	    Username:    "john.doe",
//	    Password:    "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  defer func() { _ = cli.Logoff(ctx) }()
//
//	  url, err := cli.Endpoint("organizations")
//	  if err != nil { log.Fatal(err) }
//	  _ = url
//	}
//
// # Sessions
//
// cli.Session() returns an opaque blob that can be persisted (see the
// dwconfig package) and handed back via Config.SavedSession to resume a
// session without re-prompting for credentials. The client picks the cookie
// or OAuth2 authentication variant from the blob's contents unless
// Config.UseOAuth2 forces one.
//
// # Errors
//
// Failed requests surface as *ResourceError (URL and status attached) or
// *ResourceNotFoundError; login rejections as *AccountError; malformed field
// payloads as *DataError; violated client invariants as *InternalError; and
// unresolvable search fields as *SearchConditionError. Use errors.As or the
// Is* helpers.
package dwapi
