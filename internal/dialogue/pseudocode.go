package dialogue

import (
	"strings"

	"github.com/p-n-ai/studybot/internal/curriculum"
)

// pseudocodeKeys narrow a pseudocode request to one labelled block.
var pseudocodeKeys = []string{"preorder", "inorder", "postorder", "search", "insert", "delete", "traversal"}

const pseudocodeHeading = "pseudocode:"

type codeBlock struct {
	heading string
	body    []string
}

func (b codeBlock) text() string {
	return strings.TrimLeft(b.heading+"\n"+strings.Join(b.body, "\n"), "\n \t")
}

// pseudocodeKey returns the first sub-key mentioned in the utterance.
func pseudocodeKey(utterance string) string {
	for _, k := range pseudocodeKeys {
		if strings.Contains(utterance, k) {
			return k
		}
	}
	return ""
}

// pseudocodeBlocks splits content into blocks that each start at a line
// beginning with "pseudocode:" and run to the next blank line or the next
// such heading.
func pseudocodeBlocks(content string) []codeBlock {
	var (
		blocks []codeBlock
		cur    codeBlock
		open   bool
	)
	for _, line := range curriculum.SplitLines(content) {
		if strings.HasPrefix(strings.ToLower(line), pseudocodeHeading) {
			if open {
				blocks = append(blocks, cur)
			}
			cur = codeBlock{heading: strings.TrimLeft(line[len(pseudocodeHeading):], " \t")}
			open = true
			continue
		}
		if !open {
			continue
		}
		if line == "" {
			blocks = append(blocks, cur)
			cur, open = codeBlock{}, false
			continue
		}
		cur.body = append(cur.body, line)
	}
	if open {
		blocks = append(blocks, cur)
	}
	return blocks
}

// findPseudocode returns the first block whose heading or body mentions key.
func findPseudocode(content, key string) (string, bool) {
	for _, b := range pseudocodeBlocks(content) {
		if strings.Contains(strings.ToLower(b.heading), key) ||
			strings.Contains(strings.ToLower(strings.Join(b.body, "\n")), key) {
			return b.text(), true
		}
	}
	return "", false
}
