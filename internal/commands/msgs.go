package commands

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Rebuild bookmark trees from inconsistent replicas"
	MsgRootLong        = `marktree builds a bookmark tree from the facts a sync replica reports:
each folder's children and each item's parentid. The facts may disagree or
be incomplete; marktree always produces a valid tree, flags every item whose
placement had to be repaired, and reports what it found.

Record documents (JSON or YAML) are read like a remote replica. XBEL files
are imported into the local store, a SQLite database.`
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgResolveShort    = "Build a tree from a record document and show how it was repaired"
	MsgImportShort     = "Import an XBEL file into the local store"
	MsgShowShort       = "Show the tree in the local store"
	MsgExportShort     = "Export the local store as an XBEL file"
	MsgCompareShort    = "Compare the local store with a record document"
	MsgReportShort     = "Print a markdown structure report for a record document"
	MsgConfigShort     = "Print the effective configuration as TOML"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Status messages
	MsgImported       = "Imported %d items from %s into %s"
	MsgExported       = "Exported %d items to %s"
	MsgStoreEmpty     = "The local store is empty; import an XBEL file first."
	MsgStoreStats     = "%d items, %d folders, %d tombstones, saved %s"
	MsgLocalHeading   = "Local (%s)"
	MsgRemoteHeading  = "Remote (%s)"
	MsgDiffHeading    = "Differences"
	MsgProblemHeading = "Structure problems"
	MsgRecordsWritten = "Wrote the resolved records to %s"

	// Version output
	MsgVersionFormat = "marktree version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrProblems     = "%d structure problems found"
	MsgErrUnknownShell = "unknown shell %q (supported: bash, zsh, fish, powershell)"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default is $XDG_CONFIG_HOME/marktree/config.toml)"
	MsgFlagDB       = "Local store database (default is $XDG_DATA_HOME/marktree/marktree.db)"
	MsgFlagColor    = "Color output: auto, always or never"
	MsgFlagStrict   = "Exit with an error when any structure problem is found"
	MsgFlagOutput   = "Write the resolved tree as a record document to this file"
	MsgFlagTemplate = "Print a commented config template instead of the effective config"
)
