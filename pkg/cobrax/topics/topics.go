// Package topics extends Cobra's help system with standalone help
// topics read from an embedded filesystem, so `homekeep help <topic>`
// works for subjects that are not commands.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is a named page of help text
type Topic struct {
	Name    string
	Content string
}

// Manager holds the topics loaded for an application
type Manager struct {
	topics       map[string]Topic
	originalHelp func(*cobra.Command, []string)
}

// Load reads every .txt file in fsys as a topic named after its
// basename
func Load(fsys fs.FS) (*Manager, error) {
	m := &Manager{topics: make(map[string]Topic)}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".txt" {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path.Base(p), ".txt")
		m.topics[name] = Topic{Name: name, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load help topics: %w", err)
	}
	return m, nil
}

// Get retrieves a topic by name
func (m *Manager) Get(name string) (Topic, bool) {
	t, ok := m.topics[name]
	return t, ok
}

// List returns the available topic names, sorted
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Initialize loads topics from fsys and installs a help command on
// rootCmd that falls back to Cobra's own help for anything that is not
// a topic.
func Initialize(rootCmd *cobra.Command, fsys fs.FS) error {
	m, err := Load(fsys)
	if err != nil {
		return err
	}

	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.List()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				m.originalHelp(rootCmd, nil)
				return
			}

			if args[0] == "topics" {
				names := m.List()
				if len(names) == 0 {
					cmd.Println("No help topics available.")
					return
				}
				cmd.Println("Available help topics:")
				for _, name := range names {
					cmd.Printf("  %s\n", name)
				}
				cmd.Printf("\nUse '%s help <topic>' to read a topic.\n", rootCmd.Name())
				return
			}

			if t, ok := m.Get(args[0]); ok {
				cmd.Print(t.Content)
				return
			}

			m.originalHelp(rootCmd, args)
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	return nil
}
