// Package dwclient provides the primary entry point for constructing a
// document-management platform client that implements the dwapi.Client
// interface.
//
// It layers URL normalization, HTTP transport, authentication, and platform
// root discovery on top of the types defined in the dwapi package. Most
// applications should import dwclient to build a client, then use the
// returned dwapi.Client to navigate server-advertised links and resources.
//
// Quick start
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
//
//	  // Username/password login. The authentication variant (OAuth2 token
//	  // or cookie session) is selected automatically.
//	  cli, err := dwclient.New(ctx, &dwapi.Config{
//	    PlatformURL: "https://acme.docuware.cloud",
//	    Username:    "user",
//	    Password:    "pass",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Resume a saved session instead of logging in fresh:
//	  cli, err = dwclient.New(ctx, &dwapi.Config{
//	    PlatformURL:  "https://acme.docuware.cloud",
//	    Username:     "user",
//	    Password:     "pass",
//	    SavedSession: savedBlob,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Navigate from the platform root via link relations.
//	  orgsURL, err := cli.Endpoint("organizations")
//	  if err != nil { log.Fatal(err) }
//	  _ = orgsURL
//	}
//
// # TLS and development mode
//
// For local development, you can set Config.SkipTLSVerify=true. This is gated
// by the environment variable DWAPI_DEV_MODE to avoid accidental insecure
// usage in production environments.
//
// # Helpers
//
// The package also provides convenience constructors NewWithPassword,
// NewWithOrganization, and NewWithSession that wrap New with the appropriate
// configuration.
package dwclient
