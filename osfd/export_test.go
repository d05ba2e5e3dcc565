package osfd

// ReadableFile is the file handle ReadFile reads from.
type ReadableFile = readFile

// SetOpenFile replaces the function ReadFile opens files with.
func SetOpenFile(o *OS, open func(string) (ReadableFile, error)) {
	o.openFile = open
}
