package loglatch

import (
	"bufio"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher re-reads a policy table from disk whenever it changes and
// installs it on a ConfigManager, so operators can adjust per-tag levels
// without restarting the process; every policy writes to the one target
// Emitter given to WatchFile. The file format is one "tag level" line per
// policy, fields separated by whitespace, blank lines and lines starting
// with '#' ignored. Priorities are not read from the file: the first
// accepted line gets priority 1, the next 2, and so on.
type FileWatcher struct {
	mgr       *ConfigManager
	target    Emitter
	path      string
	watcher   *fsnotify.Watcher
	done      chan struct{}
	installed []installedPolicy
}

type installedPolicy struct {
	priority int
	policy   Policy
}

// WatchFile starts watching path and installs its policy table on mgr,
// directing every matched tag at target. The initial read happens
// synchronously before WatchFile returns; subsequent changes are applied
// in the background until Close is called.
func WatchFile(mgr *ConfigManager, target Emitter, path string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &FileWatcher{mgr: mgr, target: target, path: path, watcher: w, done: make(chan struct{})}
	if err := fw.reload(); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	go fw.run()
	return fw, nil
}

func (fw *FileWatcher) run() {
	defer close(fw.done)
	for event := range fw.watcher.Events {
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			continue
		}
		if err := fw.reload(); err != nil {
			diagnosticf("loglatch: reloading policy file %s failed: %v", fw.path, err)
		}
	}
}

// reload re-reads the policy table and replaces whatever this FileWatcher
// last installed. Priorities are reused across reloads (the first accepted
// policy line is always priority 1, and so on), so the previous generation's
// policies must be removed before the new generation can claim the same
// priorities — InsertPolicy fails on a priority conflict rather than
// overwriting.
func (fw *FileWatcher) reload() error {
	f, err := os.Open(fw.path)
	if err != nil {
		return err
	}
	defer f.Close()

	var fresh []installedPolicy
	priority := 1
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		tag, levelName := fields[0], fields[1]
		level, ok := ParseLevel(levelName)
		if !ok {
			continue
		}
		fresh = append(fresh, installedPolicy{
			priority: priority,
			policy:   NewTagPolicy(tag, fw.target, LevelSetAtOrAbove(level)),
		})
		priority++
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	for _, old := range fw.installed {
		fw.mgr.RemovePolicy(old.priority, old.policy)
	}
	fw.installed = fw.installed[:0]
	for _, n := range fresh {
		if fw.mgr.InsertPolicy(n.priority, n.policy) {
			fw.installed = append(fw.installed, n)
		}
	}
	return nil
}

// Close stops watching the file. It does not remove the policies that
// were installed.
func (fw *FileWatcher) Close() error {
	err := fw.watcher.Close()
	<-fw.done
	return err
}
