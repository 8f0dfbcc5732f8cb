package mcpfacade

import "github.com/standardbeagle/ycmd-go/internal/filtersort"

func filterAndSort(query string, candidates []string, maxCandidates int) ([]string, error) {
	return filtersort.FilterAndSortStrings(query, candidates, maxCandidates)
}
