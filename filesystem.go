package rarextract

import "github.com/spf13/afero"

// defaultFS is the afero.Fs used by the non-FS-suffixed entry points,
// substituting for the rarlist predecessor's bespoke os-backed FileSystem
// interface; afero additionally lets callers exercise this library against
// afero.NewMemMapFs() in tests without touching disk.
var defaultFS afero.Fs = afero.NewOsFs()
