package plugin

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ManifestFile is where composer's plugin installer records vendor plugin paths.
const ManifestFile = "vendor/cakephp-plugins.php"

// Matches entries like 'Tools' => $baseDir . '/vendor/dereuromark/cakephp-tools/',
var manifestEntry = regexp.MustCompile(`['"]([^'"]+)['"]\s*=>\s*\$(?:baseDir|vendorDir)\s*\.\s*['"]([^'"]+)['"]`)

// ParseManifest extracts plugin name to path entries from manifest content.
// Paths are joined onto appRoot; $vendorDir entries resolve below appRoot/vendor.
func ParseManifest(content, appRoot string) map[string]string {
	result := make(map[string]string)
	for _, m := range manifestEntry.FindAllStringSubmatch(content, -1) {
		base := appRoot
		if strings.Contains(m[0], "$vendorDir") {
			base = filepath.Join(appRoot, "vendor")
		}
		rel := strings.TrimPrefix(filepath.FromSlash(m[2]), string(filepath.Separator))
		result[m[1]] = filepath.Join(base, rel)
	}
	return result
}

// loadManifest reads and parses the manifest below appRoot. A missing manifest yields no entries.
func loadManifest(appRoot string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(appRoot, filepath.FromSlash(ManifestFile)))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, readError(ManifestFile, err)
	}
	return ParseManifest(string(data), appRoot), nil
}
