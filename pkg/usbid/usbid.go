package usbid

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ardnew/softvcp/pkg"
)

// DefaultPaths lists the usual locations of the usb.ids file.
var DefaultPaths = []string{
	"/usr/share/hwdata/usb.ids",
	"/var/lib/usbutils/usb.ids",
	"/usr/share/misc/usb.ids",
}

// builtin names USB to UART bridges when no usb.ids file is available.
var builtin = map[uint16]vendor{
	0x1A86: {
		name: "QinHeng Electronics",
		products: map[uint16]string{
			0x5523: "CH341 in serial mode, usb to serial port converter",
			0x7523: "CH340 serial converter",
		},
	},
}

type vendor struct {
	name     string
	products map[uint16]string
}

// Database maps vendor and product IDs to names.
type Database struct {
	vendors map[uint16]vendor
	paths   []string
	loaded  bool
	mu      sync.RWMutex
}

// New returns a database that reads the first of paths that exists, or
// DefaultPaths if none are given. Names of supported bridges are known
// before Load is called.
func New(paths ...string) *Database {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	db := &Database{vendors: make(map[uint16]vendor), paths: paths}
	for vid, v := range builtin {
		db.vendors[vid] = v.clone()
	}
	return db
}

// Load reads the first usb.ids file found. It reports whether a file was
// read; later calls do nothing.
func (db *Database) Load() bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.loaded {
		return true
	}
	// Mark as loaded even if file not found to prevent repeated searches
	db.loaded = true

	for _, path := range db.paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		defer f.Close()
		if err := db.parse(f); err != nil {
			// Entries before the error are kept.
			pkg.LogDebug(pkg.ComponentUSBID, "usb.ids read incomplete",
				"path", path,
				"error", err)
		}
		return true
	}
	return false
}

// Parse merges entries from r, which is in usb.ids format.
func (db *Database) Parse(r io.Reader) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.parse(r)
}

// parse reads vendor lines ("xxxx  name") and the tab-indented product
// lines that follow them. Class and other sections end the vendor list.
func (db *Database) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	var current *vendor

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		if line[0] == '\t' {
			if current == nil {
				continue
			}
			if id, name, ok := splitEntry(line[1:]); ok {
				current.products[id] = name
			}
			continue
		}

		id, name, ok := splitEntry(line)
		if !ok {
			current = nil
			continue
		}
		v, exists := db.vendors[id]
		if !exists {
			v = vendor{products: make(map[uint16]string)}
		}
		v.name = name
		db.vendors[id] = v
		current = &v
	}
	return scanner.Err()
}

// splitEntry parses "xxxx  name".
func splitEntry(line string) (uint16, string, bool) {
	if len(line) < 6 || line[4] != ' ' {
		return 0, "", false
	}
	id, err := strconv.ParseUint(line[:4], 16, 16)
	if err != nil {
		return 0, "", false
	}
	return uint16(id), strings.TrimLeft(line[5:], " "), true
}

func (v vendor) clone() vendor {
	c := vendor{name: v.name, products: make(map[uint16]string, len(v.products))}
	for pid, name := range v.products {
		c.products[pid] = name
	}
	return c
}

// Vendor returns the vendor name for vid, or "".
func (db *Database) Vendor(vid uint16) string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.vendors[vid].name
}

// Product returns the product name for vid:pid, or "".
func (db *Database) Product(vid, pid uint16) string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.vendors[vid].products[pid]
}

// Describe returns "vendor product" for vid:pid, falling back to the hex
// IDs for unknown parts.
func (db *Database) Describe(vid, pid uint16) string {
	v, p := db.Vendor(vid), db.Product(vid, pid)
	if v == "" {
		v = strconv.FormatUint(uint64(vid)|0x10000, 16)[1:]
	}
	if p == "" {
		p = strconv.FormatUint(uint64(pid)|0x10000, 16)[1:]
	}
	return v + " " + p
}
