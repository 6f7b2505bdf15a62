// Package sp provides a fluent client for the SharePoint folder and file REST
// surface.
//
// # Overview
//
// Every remote resource is addressed through a Queryable: a URL under
// construction plus the Transport used to send requests and an optional
// Batch. Typed handles (Web, Folders, Folder, Files, File, Item) wrap a
// Queryable and expose the operations the resource supports. Handles are
// values; deriving a child never changes the parent.
//
// Most consumers build the root Web with the spclient package, which wires
// configuration, the retrying HTTP transport and the interceptor chain:
//
//	web, err := spclient.New(ctx, &sp.Config{
//	  SiteURL:     "https://contoso.sharepoint.com/sites/dev",
//	  AccessToken: token,
//	})
//	if err != nil { log.Fatal(err) }
//
//	added, err := web.Folders().Add(ctx, "Reports").Wait(ctx)
//	if err != nil { log.Fatal(err) }
//
//	info, err := added.Folder.Info(ctx).Wait(ctx)
//
// # Futures
//
// Action methods return a *Pending. Operations on unbatched handles are sent
// before the method returns, so Result never reports ErrPending for them.
// Operations on batched handles resolve when the batch executes.
//
// # Batching
//
// A Batch collects operations and sends them as one multipart $batch request:
//
//	batch := web.CreateBatch()
//	folders := web.Folders().InBatch(batch)
//
//	a := folders.Add(ctx, "A")
//	b := folders.Add(ctx, "B")
//
//	if err := batch.Execute(ctx); err != nil { log.Fatal(err) }
//
//	_, errA := a.Result()
//	_, errB := b.Result()
//
// Sub-responses are matched to operations by position. A failed
// sub-operation rejects only its own future; Batch.Failures collects them.
// A batch executes once: later Execute calls return ErrBatchAlreadyExecuted
// and enqueueing reports ErrBatchClosed.
//
// # Errors
//
// Remote failures are reported as *APIError. IsNotFound,
// IsPreconditionFailed and IsForbidden branch on common cases.
//
// # Interceptors
//
// InterceptorChain runs request and response hooks around a Transport. The
// package ships logging, header, client tag, rate limit and metrics
// interceptors.
package sp
