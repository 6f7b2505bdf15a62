package sp

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/sprest/internal/constants"
)

// WebInfo holds the commonly selected properties of a web.
type WebInfo struct {
	ID                string `json:"Id"`
	Title             string `json:"Title"`
	Description       string `json:"Description"`
	URL               string `json:"Url"`
	ServerRelativeURL string `json:"ServerRelativeUrl"`
	WebTemplate       string `json:"WebTemplate"`
	Created           string `json:"Created"`
}

// HostURL returns the scheme and host part of the web URL.
func (w *WebInfo) HostURL() string {
	return hostURL(w.URL, w.ServerRelativeURL)
}

// hostURL strips the server relative part from an absolute web URL.
func hostURL(webURL, serverRelativeURL string) string {
	if serverRelativeURL == "" || serverRelativeURL == "/" {
		return strings.TrimRight(webURL, "/")
	}

	return strings.TrimSuffix(strings.TrimRight(webURL, "/"), strings.TrimRight(serverRelativeURL, "/"))
}

// Web is a handle to {site}/_api/web.
type Web struct {
	Queryable
}

// NewWeb creates the root web handle of siteURL.
func NewWeb(transport Transport, siteURL string) Web {
	return Web{NewQueryable(transport, siteURL, constants.APIPathSegment, "web")}
}

// WebFrom wraps q as a web handle.
func WebFrom(q Queryable) Web {
	return Web{q}
}

// InBatch returns the web bound to b.
func (w Web) InBatch(b *Batch) Web {
	return Web{w.Queryable.InBatch(b)}
}

// CreateBatch returns a new batch for this web.
func (w Web) CreateBatch() *Batch {
	return NewBatch(w.transport, w.WebURL())
}

// Folders returns the top level folders of the web.
func (w Web) Folders() Folders {
	return FoldersFrom(w.DeriveChild("folders"))
}

// RootFolder returns the root folder of the web.
func (w Web) RootFolder() Folder {
	return FolderFrom(w.DeriveChild("rootFolder"))
}

// GetFolderByServerRelativePath returns the folder at a server relative path.
// Unlike the Url variant, the path may contain % and # characters.
func (w Web) GetFolderByServerRelativePath(path string) Folder {
	return FolderFrom(w.DeriveChild(fmt.Sprintf("getFolderByServerRelativePath(decodedUrl='%s')", QuoteParam(path))))
}

// GetFolderByServerRelativeURL returns the folder at a server relative URL.
func (w Web) GetFolderByServerRelativeURL(url string) Folder {
	return FolderFrom(w.DeriveChild(fmt.Sprintf("getFolderByServerRelativeUrl('%s')", QuoteParam(url))))
}

// GetFileByServerRelativePath returns the file at a server relative path.
func (w Web) GetFileByServerRelativePath(path string) File {
	return FileFrom(w.DeriveChild(fmt.Sprintf("getFileByServerRelativePath(decodedUrl='%s')", QuoteParam(path))))
}

// Info reads the identifying properties of the web.
func (w Web) Info(ctx context.Context) *Pending[*WebInfo] {
	target := w.Select("Id", "Title", "Description", "Url", "ServerRelativeUrl", "WebTemplate", "Created")
	pending := target.send(ctx, &PendingOperation{Verb: VerbGet, Target: target, Name: OpWebInfo})

	return mapPending(pending, func(result *Result) (*WebInfo, error) {
		info := &WebInfo{}

		err := result.Decode(info)
		if err != nil {
			return nil, err
		}

		return info, nil
	})
}

// webURLs reads Url and ServerRelativeUrl of the web at webURL. The read is
// never batched.
func webURLs(ctx context.Context, transport Transport, webURL string) (*WebInfo, error) {
	target := NewWeb(transport, webURL).Select("Url", "ServerRelativeUrl")

	result, err := dispatch(ctx, transport, &PendingOperation{Verb: VerbGet, Target: target, Name: OpWebInfo})
	if err != nil {
		return nil, err
	}

	info := &WebInfo{}

	err = result.Decode(info)
	if err != nil {
		return nil, err
	}

	return info, nil
}
