package sp

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/sprest/internal/constants"
)

// MoveCopyOptions are sent with the ByPath variants.
type MoveCopyOptions struct {
	KeepBoth                    bool              `json:"KeepBoth"`
	ResetAuthorAndCreatedOnCopy bool              `json:"ResetAuthorAndCreatedOnCopy"`
	ShouldBypassSharedLocks     bool              `json:"ShouldBypassSharedLocks"`
	Metadata                    map[string]string `json:"__metadata"`
}

func moveCopyOptions(keepBoth bool) MoveCopyOptions {
	return MoveCopyOptions{
		KeepBoth:                    keepBoth,
		ResetAuthorAndCreatedOnCopy: true,
		ShouldBypassSharedLocks:     true,
		Metadata:                    map[string]string{"type": "SP.MoveCopyOptions"},
	}
}

type moveCopy struct {
	method   string
	name     string
	destURL  string
	keepBoth bool
	byPath   bool
}

// MoveTo moves the folder to destURL, absolute or server relative.
func (f Folder) MoveTo(ctx context.Context, destURL string) *Pending[*Result] {
	return f.moveCopy(ctx, moveCopy{method: "MoveFolder", name: OpFolderMoveTo, destURL: destURL})
}

// MoveByPath moves the folder to destURL using resource paths. It also works
// across site collections.
func (f Folder) MoveByPath(ctx context.Context, destURL string, keepBoth bool) *Pending[*Result] {
	return f.moveCopy(ctx, moveCopy{
		method: "MoveFolderByPath", name: OpFolderMoveByPath, destURL: destURL, keepBoth: keepBoth, byPath: true,
	})
}

// CopyTo copies the folder to destURL, absolute or server relative.
func (f Folder) CopyTo(ctx context.Context, destURL string) *Pending[*Result] {
	return f.moveCopy(ctx, moveCopy{method: "CopyFolder", name: OpFolderCopyTo, destURL: destURL})
}

// CopyByPath copies the folder to destURL using resource paths.
func (f Folder) CopyByPath(ctx context.Context, destURL string, keepBoth bool) *Pending[*Result] {
	return f.moveCopy(ctx, moveCopy{
		method: "CopyFolderByPath", name: OpFolderCopyByPath, destURL: destURL, keepBoth: keepBoth, byPath: true,
	})
}

// moveCopy reads the source path and the web URLs right away, then sends or
// enqueues the single MoveCopyUtil call. Only that call joins a bound batch.
func (f Folder) moveCopy(ctx context.Context, mc moveCopy) *Pending[*Result] {
	source := f.unbatched().Select("ServerRelativeUrl")

	sourceResult, err := dispatch(ctx, f.transport, &PendingOperation{Verb: VerbGet, Target: source, Name: OpFolderServerURL})
	if err != nil {
		return rejectedPending[*Result](fmt.Errorf("reading source folder: %w", err))
	}

	srcURL := sourceResult.String("ServerRelativeUrl")

	web, err := webURLs(ctx, f.transport, f.WebURL())
	if err != nil {
		return rejectedPending[*Result](fmt.Errorf("reading web: %w", err))
	}

	host := web.HostURL()
	absolute := func(url string) string {
		if IsURLAbsolute(url) {
			return url
		}

		return host + url
	}

	var body interface{}
	if mc.byPath {
		body = map[string]interface{}{
			"srcPath":  ToResourcePath(absolute(srcURL)),
			"destPath": ToResourcePath(absolute(mc.destURL)),
			"options":  moveCopyOptions(mc.keepBoth),
		}
	} else {
		body = map[string]interface{}{
			"srcUrl":  host + srcURL,
			"destUrl": absolute(mc.destURL),
		}
	}

	target := NewQueryable(f.transport, web.URL, constants.MoveCopyUtil).
		Concat("." + mc.method + "()").
		InBatch(f.batch)

	return target.send(ctx, &PendingOperation{Verb: VerbPost, Target: target, Body: body, Name: mc.name})
}
