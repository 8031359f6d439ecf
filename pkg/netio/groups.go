package netio

import (
	"bufio"
	"os"
	"strings"

	"github.com/crosstalkz/crosstalkz/pkg/crosstalkerr"
	"github.com/crosstalkz/crosstalkz/pkg/graph"
	"github.com/crosstalkz/crosstalkz/pkg/groups"
)

// GroupLoadStats carries the counters the info file reports about a group
// file load, beyond what survives into the filtered Group slice itself.
type GroupLoadStats struct {
	GroupsBeforeFilter   int
	GroupsAfterFilter    int
	UniqueGenesInNetwork int
	UniqueGenesNotFound  int
}

// ParseGroups reads a TSV or CSV group file (fields: gene, group_id,
// optional system, species, description), drops members absent from net,
// and discards groups whose surviving member count is below minGroupSize.
func ParseGroups(path string, net *graph.Graph, minGroupSize int) ([]*groups.Group, *groups.GeneGroupMap, *GroupLoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, &crosstalkerr.InputFormatError{Path: path, Err: err}
	}
	defer f.Close()

	order := make([]string, 0)
	byID := make(map[string]*groups.Group)
	inNetwork := make(map[string]bool)
	notFound := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitFields(line)
		if len(fields) < 2 {
			continue
		}
		gene := strings.ToUpper(strings.TrimSpace(fields[0]))
		groupID := strings.TrimSpace(fields[1])

		g, ok := byID[groupID]
		if !ok {
			g = &groups.Group{ID: groupID, SourcePath: path}
			if len(fields) > 2 {
				g.System = fields[2]
			}
			if len(fields) > 3 {
				g.Species = fields[3]
			}
			if len(fields) > 4 {
				g.Description = fields[4]
			}
			byID[groupID] = g
			order = append(order, groupID)
		}

		if _, exists := net.NodeByLabel(gene); exists {
			g.Members = append(g.Members, gene)
			inNetwork[gene] = true
		} else {
			notFound[gene] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, &crosstalkerr.InputFormatError{Path: path, Err: err}
	}

	all := make([]*groups.Group, 0, len(order))
	for _, id := range order {
		all = append(all, byID[id])
	}

	filtered := groups.Filter(all, minGroupSize)
	if len(filtered) == 0 {
		return nil, nil, nil, &crosstalkerr.NoGroupsError{Path: path}
	}

	ggm := groups.BuildGeneGroupMap(filtered)
	stats := &GroupLoadStats{
		GroupsBeforeFilter:   len(all),
		GroupsAfterFilter:    len(filtered),
		UniqueGenesInNetwork: len(inNetwork),
		UniqueGenesNotFound:  len(notFound),
	}
	return filtered, ggm, stats, nil
}

// splitFields tokenizes one group-file row on tab if present, else comma.
func splitFields(line string) []string {
	sep := ","
	if strings.Contains(line, "\t") {
		sep = "\t"
	}
	parts := strings.Split(line, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
