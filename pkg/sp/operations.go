package sp

// Metadata keys set on every Request built from a PendingOperation.
const (
	MetadataOperation = "operation"
	MetadataBatchSize = "batch_size"
)

// OperationKind groups operations by effect.
type OperationKind string

// Operation kinds.
const (
	KindRead   OperationKind = "read"
	KindCreate OperationKind = "create"
	KindUpdate OperationKind = "update"
	KindDelete OperationKind = "delete"
	KindMove   OperationKind = "move"
	KindBatch  OperationKind = "batch"
)

// OperationInfo is the static metadata of a named operation.
type OperationInfo struct {
	Tag  string
	Kind OperationKind
}

// Operation names.
const (
	OpGet                 = "get"
	OpBatch               = "batch"
	OpWebInfo             = "w.info"
	OpFoldersAdd          = "fs.add"
	OpFoldersAddUsingPath = "fs.addUsingPath"
	OpFoldersList         = "fs.list"
	OpFolderInfo          = "f.info"
	OpFolderUpdate        = "f.update"
	OpFolderDelete        = "f.delete"
	OpFolderRecycle       = "f.recycle"
	OpFolderDeleteParams  = "f.del-params"
	OpFolderMoveTo        = "f.moveTo"
	OpFolderMoveByPath    = "f.moveByPath"
	OpFolderCopyTo        = "f.copyTo"
	OpFolderCopyByPath    = "f.copyByPath"
	OpFolderAddSubFolder  = "f.addSubFolderUsingPath"
	OpFolderGetItem       = "f.getItem"
	OpFolderGetShareable  = "f.getShareable"
	OpFolderServerURL     = "f.serverRelativeUrl"
	OpFilesAdd            = "fis.add"
	OpFilesList           = "fis.list"
	OpFileInfo            = "fi.info"
	OpFileDelete          = "fi.delete"
	OpFileRecycle         = "fi.recycle"
	OpFileGetText         = "fi.getText"
	OpItemInfo            = "i.info"
	OpItemUpdate          = "i.update"
	OpItemDelete          = "i.delete"
)

// Operations maps operation names to their metadata. It replaces per-method
// annotations: interceptors look requests up here by name.
var Operations = map[string]OperationInfo{
	OpGet:                 {Tag: "q.get", Kind: KindRead},
	OpBatch:               {Tag: "b.execute", Kind: KindBatch},
	OpWebInfo:             {Tag: OpWebInfo, Kind: KindRead},
	OpFoldersAdd:          {Tag: OpFoldersAdd, Kind: KindCreate},
	OpFoldersAddUsingPath: {Tag: OpFoldersAddUsingPath, Kind: KindCreate},
	OpFoldersList:         {Tag: OpFoldersList, Kind: KindRead},
	OpFolderInfo:          {Tag: OpFolderInfo, Kind: KindRead},
	OpFolderUpdate:        {Tag: OpFolderUpdate, Kind: KindUpdate},
	OpFolderDelete:        {Tag: OpFolderDelete, Kind: KindDelete},
	OpFolderRecycle:       {Tag: OpFolderRecycle, Kind: KindDelete},
	OpFolderDeleteParams:  {Tag: OpFolderDeleteParams, Kind: KindDelete},
	OpFolderMoveTo:        {Tag: OpFolderMoveTo, Kind: KindMove},
	OpFolderMoveByPath:    {Tag: OpFolderMoveByPath, Kind: KindMove},
	OpFolderCopyTo:        {Tag: OpFolderCopyTo, Kind: KindMove},
	OpFolderCopyByPath:    {Tag: OpFolderCopyByPath, Kind: KindMove},
	OpFolderAddSubFolder:  {Tag: OpFolderAddSubFolder, Kind: KindCreate},
	OpFolderGetItem:       {Tag: OpFolderGetItem, Kind: KindRead},
	OpFolderGetShareable:  {Tag: OpFolderGetShareable, Kind: KindRead},
	OpFolderServerURL:     {Tag: OpFolderServerURL, Kind: KindRead},
	OpFilesAdd:            {Tag: OpFilesAdd, Kind: KindCreate},
	OpFilesList:           {Tag: OpFilesList, Kind: KindRead},
	OpFileInfo:            {Tag: OpFileInfo, Kind: KindRead},
	OpFileDelete:          {Tag: OpFileDelete, Kind: KindDelete},
	OpFileRecycle:         {Tag: OpFileRecycle, Kind: KindDelete},
	OpFileGetText:         {Tag: OpFileGetText, Kind: KindRead},
	OpItemInfo:            {Tag: OpItemInfo, Kind: KindRead},
	OpItemUpdate:          {Tag: OpItemUpdate, Kind: KindUpdate},
	OpItemDelete:          {Tag: OpItemDelete, Kind: KindDelete},
}

// LookupOperation returns the metadata of name, falling back to a read
// tagged with the name itself.
func LookupOperation(name string) OperationInfo {
	if info, ok := Operations[name]; ok {
		return info
	}

	return OperationInfo{Tag: name, Kind: KindRead}
}
