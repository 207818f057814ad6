package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/etnz/longshort/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded documentation.
type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the desk documentation" }
func (*topicCmd) Usage() string {
	return `lsdesk topic [-list] [<topic>...]

  Prints the documentation topics one after the other, "*" standing for all of them. Without
  a topic it prints the index. With -list it only prints the topic names, one per line.
  Topics: ` + strings.Join(docs.Topics(), ", ") + `
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "Print the topic names only")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		fmt.Println(strings.Join(docs.Topics(), "\n"))
		return subcommands.ExitSuccess
	}
	doc, err := topicText(f.Args())
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: %v, known topics are %s\n", err, strings.Join(docs.Topics(), ", "))
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// topicText returns the markdown of the topics, the index when there is none.
func topicText(topics []string) (string, error) {
	if len(topics) == 0 {
		return docs.GetTopic(docs.Index)
	}
	return docs.GetTopics(topics...)
}
