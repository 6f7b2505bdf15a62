package sp_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/sprest/pkg/sp"
)

func TestFiles_Add(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(req *sp.Request) *sp.Response {
		return jsonResponse(http.StatusOK, `{"d":{"Name":"notes.txt","Length":"5"}}`)
	}}

	files := newWeb(transport).Folders().GetByName("Q1").Files()

	result, err := files.Add(context.Background(), "notes.txt", []byte("hello"), true).Result()
	require.NoError(t, err)
	assert.Equal(t, siteURL+"/_api/web/folders('Q1')/files('notes.txt')", result.File.ToURL())

	calls := transport.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, siteURL+"/_api/web/folders('Q1')/files/add(overwrite=true,url='notes.txt')", calls[0].URL)
	assert.Equal(t, []byte("hello"), calls[0].Body)
	assert.Empty(t, calls[0].Headers.Get("Content-Type"))
}

func TestFiles_List(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(req *sp.Request) *sp.Response {
		return jsonResponse(http.StatusOK, `{"d":{"results":[{"Name":"a.txt","Length":"12","MajorVersion":2}]}}`)
	}}

	files, err := newWeb(transport).RootFolder().Files().List(context.Background()).Result()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, int64(12), files[0].Length)
	assert.Equal(t, 2, files[0].MajorVersion)
}

func TestFile_Operations(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(req *sp.Request) *sp.Response {
		switch req.Operation() {
		case sp.OpFileGetText:
			return &sp.Response{StatusCode: http.StatusOK, Body: []byte("file body")}
		case sp.OpFileRecycle:
			return jsonResponse(http.StatusOK, `{"d":{"Recycle":"bin-1"}}`)
		default:
			return jsonResponse(http.StatusOK, `{"d":{"Name":"a.txt","ETag":"\"{A1},1\""}}`)
		}
	}}

	ctx := context.Background()
	file := newWeb(transport).GetFileByServerRelativePath("/sites/dev/Shared Documents/a.txt")

	text, err := file.GetText(ctx).Result()
	require.NoError(t, err)
	assert.Equal(t, "file body", text)

	info, err := file.Info(ctx).Result()
	require.NoError(t, err)
	assert.Equal(t, `"{A1},1"`, info.ETag)

	id, err := file.Recycle(ctx).Result()
	require.NoError(t, err)
	assert.Equal(t, "bin-1", id)

	_, err = file.Delete(ctx, info.ETag).Result()
	require.NoError(t, err)

	calls := transport.calls()
	require.Len(t, calls, 4)

	fileURL := siteURL + "/_api/web/getFileByServerRelativePath(decodedUrl='%2Fsites%2Fdev%2FShared%20Documents%2Fa.txt')"
	assert.Equal(t, fileURL+"/$value", calls[0].URL)
	assert.Equal(t, fileURL, calls[1].URL)
	assert.Equal(t, fileURL+"/recycle", calls[2].URL)
	assert.Equal(t, http.MethodDelete, calls[3].Method)
	assert.Equal(t, `"{A1},1"`, calls[3].Headers.Get("If-Match"))
}

func TestItem_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(req *sp.Request) *sp.Response {
		return jsonResponse(http.StatusNoContent, "")
	}}

	ctx := context.Background()
	item := sp.ItemFrom(sp.NewQueryable(transport, siteURL+"/_api/Web/Lists(guid'5f1e')/Items(4)"))

	result, err := item.Update(ctx, map[string]interface{}{"Title": "Renamed"}, "").Result()
	require.NoError(t, err)
	assert.Equal(t, item.ToURL(), result.Item.ToURL())

	_, err = item.Update(ctx, map[string]interface{}{"Title": "Again"}, "SP.Data.Shared_x0020_DocumentsItem").Result()
	require.NoError(t, err)

	_, err = item.Delete(ctx, "").Result()
	require.NoError(t, err)

	calls := transport.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodPatch, calls[0].Method)
	assert.Equal(t, map[string]interface{}{"type": sp.DefaultItemEntityType}, decodeBody(t, calls[0])["__metadata"])
	assert.Equal(t, map[string]interface{}{"type": "SP.Data.Shared_x0020_DocumentsItem"}, decodeBody(t, calls[1])["__metadata"])
	assert.Equal(t, http.MethodDelete, calls[2].Method)
	assert.Equal(t, "*", calls[2].Headers.Get("If-Match"))
}

func TestOperations_Lookup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sp.OperationInfo{Tag: "fs.add", Kind: sp.KindCreate}, sp.LookupOperation(sp.OpFoldersAdd))
	assert.Equal(t, sp.KindMove, sp.LookupOperation(sp.OpFolderCopyByPath).Kind)
	assert.Equal(t, sp.OperationInfo{Tag: "other", Kind: sp.KindRead}, sp.LookupOperation("other"))
}
