package tconf

import "github.com/spf13/afero"

// DefaultFs is the default filesystem used by tconf for all file operations.
// It defaults to the OS filesystem but can be overridden for testing.
//
// Example usage for testing:
//
//	func TestMyConfig(t *testing.T) {
//	    memFs := afero.NewMemMapFs()
//	    afero.WriteFile(memFs, "/config.yaml", []byte("host: localhost"), 0644)
//	    tconf.SetDefaultFs(memFs)
//	    defer tconf.ResetDefaultFs()
//	    // ... test code ...
//	}
var DefaultFs afero.Fs = afero.NewOsFs()

// SetDefaultFs sets the global default filesystem.
//
// WARNING: This modifies global state and is NOT thread-safe. Do not use
// with t.Parallel() tests. For concurrent tests, use Options.Fs on
// individual Compose calls instead.
func SetDefaultFs(fs afero.Fs) {
	DefaultFs = fs
}

// ResetDefaultFs resets the global filesystem to the OS filesystem.
func ResetDefaultFs() {
	DefaultFs = afero.NewOsFs()
}
