// SPDX-License-Identifier: MPL-2.0

// Package steam locates the game's installation directory through Steam's
// library metadata. The rest of the tool consumes it as a narrow locator;
// a configured game path override always wins over discovery.
package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/andygrunwald/vdf"
)

// AppID is the Steam application id of GUILTY GEAR Xrd Rev 2.
const AppID = "520440"

// RunURL launches the game through the Steam client.
const RunURL = "steam://run/" + AppID

var (
	// ErrSteamNotFound is returned when no Steam installation is present.
	ErrSteamNotFound = errors.New("steam: could not locate a Steam installation")

	// ErrGameNotFound is returned when Steam exists but the game is not
	// installed in any library.
	ErrGameNotFound = errors.New("steam: could not locate GUILTY GEAR Xrd Rev 2")
)

// Locate returns the game's installation directory, searching every Steam
// library on this machine.
func Locate() (string, error) {
	return locateFrom(defaultRoots())
}

// defaultRoots lists the usual Steam installation roots per platform.
func defaultRoots() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			filepath.Join(os.Getenv("ProgramFiles(x86)"), "Steam"),
			filepath.Join(os.Getenv("ProgramFiles"), "Steam"),
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		return []string{filepath.Join(home, "Library", "Application Support", "Steam")}
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		return []string{
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
		}
	}
}

// locateFrom searches the given Steam roots for the game. The first root
// that exists decides whether Steam counts as installed.
func locateFrom(roots []string) (string, error) {
	foundSteam := false
	for _, root := range roots {
		if root == "" {
			continue
		}
		if _, err := os.Stat(root); err != nil {
			continue
		}
		foundSteam = true

		for _, lib := range libraries(root) {
			dir, err := appDir(lib)
			if err != nil {
				continue
			}
			return dir, nil
		}
	}

	if !foundSteam {
		return "", ErrSteamNotFound
	}
	return "", ErrGameNotFound
}

// libraries returns every Steam library root reachable from the given Steam
// root, the root itself included. Additional libraries come from
// steamapps/libraryfolders.vdf, which has carried two shapes over the years:
// numeric keys mapping to objects with a "path" field, and numeric keys
// mapping directly to path strings.
func libraries(root string) []string {
	libs := []string{root}

	f, err := os.Open(filepath.Join(root, "steamapps", "libraryfolders.vdf"))
	if err != nil {
		return libs
	}
	defer f.Close()

	parsed, err := vdf.NewParser(f).Parse()
	if err != nil {
		return libs
	}

	folders, ok := parsed["libraryfolders"].(map[string]interface{})
	if !ok {
		return libs
	}
	for _, value := range folders {
		switch v := value.(type) {
		case string:
			libs = append(libs, v)
		case map[string]interface{}:
			if path, ok := v["path"].(string); ok {
				libs = append(libs, path)
			}
		}
	}
	return libs
}

// appDir resolves the game's installation directory within one library by
// reading its app manifest.
func appDir(lib string) (string, error) {
	manifestPath := filepath.Join(lib, "steamapps", "appmanifest_"+AppID+".acf")
	f, err := os.Open(manifestPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	parsed, err := vdf.NewParser(f).Parse()
	if err != nil {
		return "", fmt.Errorf("steam: parse %s: %w", manifestPath, err)
	}

	state, ok := parsed["AppState"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("steam: %s: no AppState", manifestPath)
	}
	installDir, ok := state["installdir"].(string)
	if !ok || installDir == "" {
		return "", fmt.Errorf("steam: %s: no installdir", manifestPath)
	}

	dir := filepath.Join(lib, "steamapps", "common", installDir)
	if _, err := os.Stat(dir); err != nil {
		return "", err
	}
	return dir, nil
}
