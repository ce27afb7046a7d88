package git

import (
	"bufio"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// File is a regular file in the HEAD tree
type File struct {
	Path string
	Size int64

	file *object.File
}

// Ext returns the lower-cased extension without the dot, or "" when there is none.
// Dotfiles such as ".gitignore" have no extension.
func (f File) Ext() string {
	base := path.Base(f.Path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// Lines counts the lines of a text file. Binary files count as zero.
func (f File) Lines() (int, error) {
	if f.file == nil {
		return 0, nil
	}

	binary, err := f.file.IsBinary()
	if err != nil {
		return 0, fmt.Errorf("failed to inspect %s: %w", f.Path, err)
	}
	if binary {
		return 0, nil
	}

	reader, err := f.file.Reader()
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	defer reader.Close()

	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, ScannerInitialBufferSize)
	scanner.Buffer(buf, ScannerMaxBufferSize)

	lines := 0
	for scanner.Scan() {
		lines++
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, bufio.ErrTooLong) {
		return 0, fmt.Errorf("failed to scan %s: %w", f.Path, err)
	}

	return lines, nil
}

// Walk calls fn for every regular file in the HEAD tree. An unborn HEAD walks nothing.
// Returning an error from fn stops the walk with that error.
func (r *Repository) Walk(fn func(File) error) error {
	head, err := r.head()
	if err != nil {
		return err
	}
	if head == nil {
		return nil
	}

	tree, err := head.Tree()
	if err != nil {
		return fmt.Errorf("failed to get HEAD tree: %w", err)
	}

	return tree.Files().ForEach(func(f *object.File) error {
		return fn(File{Path: f.Name, Size: f.Size, file: f})
	})
}

// BlobSize returns the size in bytes of the blob at p in HEAD
func (r *Repository) BlobSize(p string) (int64, error) {
	head, err := r.head()
	if err != nil {
		return 0, err
	}
	if head == nil {
		return 0, fmt.Errorf("%w: %s", ErrFileNotFound, p)
	}

	tree, err := head.Tree()
	if err != nil {
		return 0, fmt.Errorf("failed to get HEAD tree: %w", err)
	}

	f, err := tree.File(p)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
		return 0, fmt.Errorf("failed to get file %s: %w", p, err)
	}

	return f.Size, nil
}

// Tree returns the HEAD tree pruned at depth (0 means unlimited)
func (r *Repository) Tree(depth int) (*Node, error) {
	b := NewTreeBuilder(r.Name(), depth)
	err := r.Walk(func(f File) error {
		b.Add(f.Path, f.Size)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// Node is a directory or file in a file structure tree
type Node struct {
	Name      string  `json:"name"`
	Path      string  `json:"path"`
	IsDir     bool    `json:"is_dir"`
	Size      int64   `json:"size,omitempty"`
	Truncated bool    `json:"truncated,omitempty"`
	Children  []*Node `json:"children,omitempty"`
}

// Leaves returns the number of files under n
func (n *Node) Leaves() int {
	if !n.IsDir {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += c.Leaves()
	}
	return count
}

// TreeBuilder assembles a Node tree from slash-separated file paths.
// Root-level files sit at depth 1.
type TreeBuilder struct {
	root  *Node
	depth int
	dirs  map[string]*Node
}

func NewTreeBuilder(name string, depth int) *TreeBuilder {
	root := &Node{Name: name, IsDir: true}
	return &TreeBuilder{
		root:  root,
		depth: depth,
		dirs:  map[string]*Node{"": root},
	}
}

// Add places the file at p in the tree and reports whether it is within depth.
// A directory sitting at the depth boundary is kept, flagged truncated, without children.
func (b *TreeBuilder) Add(p string, size int64) bool {
	segs := strings.Split(p, "/")
	parent := b.root

	for i, seg := range segs[:len(segs)-1] {
		dirPath := strings.Join(segs[:i+1], "/")
		dir, ok := b.dirs[dirPath]
		if !ok {
			dir = &Node{Name: seg, Path: dirPath, IsDir: true}
			b.dirs[dirPath] = dir
			parent.Children = append(parent.Children, dir)
		}

		if b.depth > 0 && i+1 >= b.depth {
			dir.Truncated = true
			return false
		}
		parent = dir
	}

	parent.Children = append(parent.Children, &Node{
		Name: segs[len(segs)-1],
		Path: p,
		Size: size,
	})
	return true
}

// Build returns the root with children sorted, directories first
func (b *TreeBuilder) Build() *Node {
	sortNode(b.root)
	return b.root
}

func sortNode(n *Node) {
	sort.Slice(n.Children, func(i, j int) bool {
		a, c := n.Children[i], n.Children[j]
		if a.IsDir != c.IsDir {
			return a.IsDir
		}
		return a.Name < c.Name
	})
	for _, c := range n.Children {
		if c.IsDir {
			sortNode(c)
		}
	}
}
