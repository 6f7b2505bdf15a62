// Package spclient provides the primary entry point for constructing a
// SharePoint REST client that implements the sp.Client interface.
//
// It layers configuration, the retrying HTTP transport, bearer token
// authentication and the interceptor chain on top of the fluent handles defined
// in the sp package. Most applications build a client here and then navigate
// from the root web returned by Web().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/sprest/pkg/sp"
//	  "github.com/fivetwenty-io/sprest/pkg/spclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := spclient.New(ctx, &sp.Config{
//	    SiteURL:     "contoso.sharepoint.com/sites/dev", // https:// is added
//	    AccessToken: "eyJ0eXAiOi...",
//	    ClientTag:   "myapp",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  added, err := cli.Web().Folders().Add(ctx, "Shared Documents/Reports").Wait(ctx)
//	  if err != nil { log.Fatal(err) }
//
//	  // Group several writes into one round trip.
//	  batch := cli.Web().CreateBatch()
//	  reports := added.Folder.InBatch(batch)
//	  first := reports.AddSubFolderUsingPath(ctx, "2024")
//	  second := reports.AddSubFolderUsingPath(ctx, "2025")
//	  if err := batch.Execute(ctx); err != nil { log.Fatal(err) }
//	  _, _ = first.Result()
//	  _, _ = second.Result()
//	}
//
// # TLS and development mode
//
// For local development, you can set Config.SkipTLSVerify=true. This is gated by
// the environment variable SPREST_DEV_MODE to avoid accidental insecure usage in
// production environments.
package spclient
