package main

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/KarpelesLab/blockarc"
)

const usage = `arc - blockarc archive CLI tool

Usage:
  arc ls <archive>                     List entries in the archive
  arc cat <archive> <name>             Display the contents of an entry
  arc info <archive>                   Display information about an archive
  arc create <archive> [block_size]    Create a new, empty archive
  arc add <archive> <name> <file>      Append a local file's contents as a new entry
  arc help                             Show this help message

Examples:
  arc create archive.arc               Create an empty archive with the default block size
  arc add archive.arc hello.txt hello.txt
  arc ls archive.arc                   List all entries
  arc cat archive.arc hello.txt        Print hello.txt's content
  arc info archive.arc                 Show archive metadata
`

const defaultBlockSize uint32 = 4096

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "ls":
		err = requireArgs(2, func() error { return listEntries(os.Args[2]) })
	case "cat":
		err = requireArgs(3, func() error { return catEntry(os.Args[2], os.Args[3]) })
	case "info":
		err = requireArgs(2, func() error { return showInfo(os.Args[2]) })
	case "create":
		err = requireArgs(2, func() error { return createArchive(os.Args) })
	case "add":
		err = requireArgs(4, func() error { return addFile(os.Args[2], os.Args[3], os.Args[4]) })
	case "help":
		fmt.Println(usage)
		return
	default:
		fmt.Printf("Error: Unknown command '%s'\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// requireArgs checks os.Args carries at least n arguments past the program name (the
// subcommand name included) before running fn, printing usage and failing otherwise.
func requireArgs(n int, fn func() error) error {
	if len(os.Args) < n+1 {
		fmt.Println("Error: missing arguments")
		fmt.Println(usage)
		os.Exit(1)
	}
	return fn()
}

func openArchive(path string) (*blockarc.Archive, error) {
	backend, err := blockarc.OpenFileBackend(path, defaultBlockSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	ar, err := blockarc.Open(backend)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return ar, nil
}

// listEntries lists every entry in the archive's flat namespace.
func listEntries(path string) error {
	ar, err := openArchive(path)
	if err != nil {
		return err
	}
	defer ar.Close()

	entries, err := fs.ReadDir(ar.FS(), ".")
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to stat '%s': %s\n", entry.Name(), err)
			continue
		}
		printEntryInfo(info)
	}
	return nil
}

func printEntryInfo(info fs.FileInfo) {
	typeChar := "-"
	switch {
	case info.IsDir():
		typeChar = "d"
	case info.Mode()&fs.ModeSymlink != 0:
		typeChar = "l"
	}

	mode := info.Mode().String()
	permissions := mode[1:]

	size := fmt.Sprintf("%8d", info.Size())
	if info.IsDir() {
		size = "       -"
	}

	fmt.Printf("%s%s %s %s\n", typeChar, permissions, size, info.Name())
}

// catEntry writes one entry's content to stdout.
func catEntry(path, name string) error {
	ar, err := openArchive(path)
	if err != nil {
		return err
	}
	defer ar.Close()

	data, err := fs.ReadFile(ar.FS(), name)
	if err != nil {
		return fmt.Errorf("failed to read '%s': %w", name, err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

// showInfo prints header-level metadata about an archive.
func showInfo(path string) error {
	ar, err := openArchive(path)
	if err != nil {
		return err
	}
	defer ar.Close()

	fmt.Println("blockarc archive information")
	fmt.Println("=============================")
	fmt.Printf("Block size: %d bytes\n", ar.Backend().BlockSize())
	fmt.Printf("Entry count: %d\n", ar.FileCount())

	var files, dirs, links int
	entry, ok, err := ar.First()
	if err != nil {
		return err
	}
	for ok {
		switch entry.Kind() {
		case blockarc.KindFile:
			files++
		case blockarc.KindDirectory:
			dirs++
		case blockarc.KindSymlink:
			links++
		}
		entry, ok, err = entry.Next()
		if err != nil {
			return err
		}
	}

	fmt.Println("\nContent summary")
	fmt.Println("----------------")
	fmt.Printf("Regular files: %d\n", files)
	fmt.Printf("Directories:   %d\n", dirs)
	fmt.Printf("Symlinks:      %d\n", links)
	return nil
}

// createArchive creates a new, empty archive at os.Args[2], optionally with a block size
// given as os.Args[3].
func createArchive(args []string) error {
	path := args[2]
	blockSize := defaultBlockSize
	if len(args) > 3 {
		n, err := strconv.ParseUint(args[3], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid block size %q: %w", args[3], err)
		}
		blockSize = uint32(n)
	}

	backend, err := blockarc.CreateFileBackend(path, blockSize, false)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer backend.Close()

	ar, err := blockarc.Create(backend, false)
	if err != nil {
		return fmt.Errorf("failed to initialize archive: %w", err)
	}
	return ar.Close()
}

// addFile appends localPath's content as a new file entry named name.
func addFile(archivePath, name, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read '%s': %w", localPath, err)
	}
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("failed to stat '%s': %w", localPath, err)
	}

	ar, err := openArchive(archivePath)
	if err != nil {
		return err
	}
	defer ar.Close()

	mut, err := ar.Append(name, info.Mode().Perm()).Build()
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	if err := mut.WriteAll(data); err != nil {
		return fmt.Errorf("failed to write entry content: %w", err)
	}
	return nil
}
