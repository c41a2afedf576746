package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"clippair/internal/catalogue"
	"clippair/internal/pairfile"
	"clippair/internal/pairing"
)

// CheckFileReadable verifies that path is an existing regular file the
// process can read.
func CheckFileReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCreatableDirectory passes when path is an accessible directory or
// when its nearest existing ancestor would allow creating it.
func CheckCreatableDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	ancestor, err := nearestExisting(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if check := CheckDirectoryAccess(name, ancestor); !check.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s)", path, ancestor)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckCatalogue verifies that the catalogue is readable and every record
// passes validation.
func CheckCatalogue(name, path string) Result {
	if check := CheckFileReadable(name, path); !check.Passed {
		return check
	}
	entries, err := catalogue.Load(path)
	if err != nil {
		var schemaErr *catalogue.SchemaError
		if errors.As(err, &schemaErr) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %d invalid records, first: %s)", path, len(schemaErr.Issues), schemaErr.First())}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	scopes := catalogue.Summarize(entries)
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries, %d scopes)", path, len(entries), len(scopes))}
}

// CheckOutputTarget verifies that the output file can be created or replaced
// and that no other run currently holds its lock.
func CheckOutputTarget(name, path string) Result {
	dir := filepath.Dir(path)
	if check := CheckCreatableDirectory(name, dir); !check.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: output directory unusable: %s)", path, check.Detail)}
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if _, err := os.Stat(dir); err == nil {
		lock := flock.New(pairfile.LockPath(path))
		ok, err := lock.TryLock()
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: lock: %v)", path, err)}
		}
		if !ok {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: locked by another run)", path)}
		}
		_ = lock.Unlock()
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
}

// CheckPolicy verifies that the configured policy and collision mode parse.
func CheckPolicy(policy, collision string) Result {
	const name = "Policy"

	parsed, err := pairing.ParsePolicy(policy)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	mode, err := pairing.ParseCollisionPolicy(collision)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (collisions: %s)", parsed, mode)}
}

// CheckPivotFile verifies that the pivot override file parses.
func CheckPivotFile(name, path string) Result {
	if check := CheckFileReadable(name, path); !check.Passed {
		return check
	}
	pivots, err := pairfile.ReadPivots(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d overrides)", path, len(pivots))}
}

// CheckBaselinePivots flags a baseline run with no pivot configured at all.
// Every variant then falls back to its lexicographically first agent.
func CheckBaselinePivots(pivotFile string, pivots map[string]string) Result {
	const name = "Pivots"
	if strings.TrimSpace(pivotFile) != "" || len(pivots) > 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d inline, file %s", len(pivots), displayPath(pivotFile))}
	}
	return Result{
		Name:     name,
		Passed:   true,
		Advisory: true,
		Detail:   "none configured; each variant pivots on its lexicographically first agent",
	}
}

func displayPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "(none)"
	}
	return path
}

func nearestExisting(path string) (string, error) {
	current, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(current); err == nil {
			return current, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing ancestor for %s", path)
		}
		current = parent
	}
}
