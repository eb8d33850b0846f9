package blocklist

import (
	"bufio"
	"os"
	"strings"
)

// LoadFile reads one pattern per line from path, skipping blank lines and
// lines starting with '#'. It does not touch the network, fetching
// remote blocklists is packaging-layer concern, out of scope for the
// core.
func LoadFile(b *BlockList, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		b.Insert(line)
		n++
	}
	return n, scanner.Err()
}
