package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir discovers budget exports under path. A path naming a single file
// yields that file; a directory is walked for *.json files. A missing path
// is not an error and yields nothing.
func ScanDir(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return []DiscoveredFile{discovered(path, info)}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			// Skip hidden directories such as .git
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".json") {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // file vanished mid-walk
		}
		files = append(files, discovered(p, fi))
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func discovered(path string, fi os.FileInfo) DiscoveredFile {
	name := filepath.Base(path)
	return DiscoveredFile{
		Path:    path,
		Name:    strings.TrimSuffix(name, filepath.Ext(name)),
		Size:    fi.Size(),
		ModTime: fi.ModTime().UnixNano(),
	}
}
