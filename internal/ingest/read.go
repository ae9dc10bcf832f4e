// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package ingest reads a logged session directory: one sub-directory per
// device, each holding Command.json and one CSV file per message type.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/inertial_sessions/internal/session"
)

var (
	// ErrRootNotFound is returned when the session root is not a directory.
	ErrRootNotFound = errors.New("session root does not exist")
	// ErrRootEmpty is returned when the session root has no device entries.
	ErrRootEmpty = errors.New("session root is empty")
)

// Read loads every device directory under root. Hidden entries are skipped
// and devices are returned ordered by directory name. An empty filter reads
// every message type; types outside the filter get empty tables.
func Read(root string, filter ...session.MessageType) ([]session.Device, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", root, ErrRootNotFound)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", root, err)
	}

	var dirs []string
	visible := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		visible++
		if !e.IsDir() {
			log.Printf("ingest: skipping %s, not a directory", e.Name())
			continue
		}
		dirs = append(dirs, filepath.Join(root, e.Name()))
	}
	if visible == 0 {
		return nil, fmt.Errorf("%q: %w", root, ErrRootEmpty)
	}
	sort.Strings(dirs)

	devices := make([]session.Device, len(dirs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, dir := range dirs {
		g.Go(func() error {
			d, err := ReadDevice(dir, filter...)
			if err != nil {
				return err
			}
			devices[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Printf("ingest: read %d devices from %s", len(devices), root)
	return devices, nil
}

// ReadDevice loads a single device directory.
func ReadDevice(dir string, filter ...session.MessageType) (session.Device, error) {
	command, err := readCommand(dir)
	if err != nil {
		return session.Device{}, err
	}

	wanted := make(map[session.MessageType]bool, len(filter))
	for _, t := range filter {
		wanted[t] = true
	}

	streams := make(map[session.MessageType]session.Table)
	for _, t := range session.AllMessageTypes() {
		if len(wanted) > 0 && !wanted[t] {
			continue
		}
		streams[t] = readTable(filepath.Join(dir, t.FileName()), t)
	}

	d, err := session.NewDevice(parseIdentity(command), command, streams)
	if err != nil {
		return session.Device{}, fmt.Errorf("device %s: %w", filepath.Base(dir), err)
	}
	return d, nil
}

// readTable parses one message CSV. A missing file is an empty table and a
// malformed file is logged and treated as empty.
func readTable(path string, t session.MessageType) session.Table {
	empty := session.EmptyTable(t.Width())

	file, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("ingest: unable to open %s: %v", path, err)
		}
		return empty
	}
	defer file.Close()

	table, err := parseTable(file, t)
	if err != nil {
		log.Printf("ingest: unable to read %s: %v", path, err)
		return empty
	}
	return table
}

func parseTable(r io.Reader, t session.MessageType) (session.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]float64
	var text []string
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return session.Table{}, err
		}
		if header {
			header = false
			continue
		}

		row := make([]float64, t.Width())
		for i := range row {
			if i < len(record) {
				row[i] = parseFloat(record[i])
			} else {
				row[i] = nan
			}
		}
		rows = append(rows, row)

		if t.HasText() {
			if len(record) > 1 {
				text = append(text, strings.Join(record[1:], ","))
			} else {
				text = append(text, "")
			}
		}
	}

	if len(rows) == 0 {
		return session.EmptyTable(t.Width()), nil
	}
	return session.NewTable(t.Width(), rows, text)
}
