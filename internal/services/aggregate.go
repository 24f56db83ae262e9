package services

import (
	"sort"

	"debloom/internal/core"
)

// AggregateRows folds ordered gateway rows into date groups in one pass.
//
// Categories within a date and todos within a category keep the order the
// rows arrived in; only dates are sorted. The category name and creation
// date come from the first row that introduces the category on that date.
// Rows with a nil TodoID open the category but add no todo.
func AggregateRows(rows []core.TodoRow) []core.DateGroup {
	groups := make([]core.DateGroup, 0)
	dateIdx := make(map[string]int)
	catIdx := make(map[string]map[int64]int)

	for _, r := range rows {
		di, ok := dateIdx[r.TodoDate]
		if !ok {
			di = len(groups)
			dateIdx[r.TodoDate] = di
			catIdx[r.TodoDate] = make(map[int64]int)
			groups = append(groups, core.DateGroup{
				Date:       r.TodoDate,
				Categories: []core.CategoryGroup{},
			})
		}
		dg := &groups[di]

		ci, ok := catIdx[r.TodoDate][r.CategoryID]
		if !ok {
			ci = len(dg.Categories)
			catIdx[r.TodoDate][r.CategoryID] = ci
			dg.Categories = append(dg.Categories, core.CategoryGroup{
				CategoryID:        r.CategoryID,
				Name:              r.Name,
				CategoryCreatedAt: r.CategoryCreatedAt,
				Todos:             []core.TodoView{},
			})
		}

		if r.TodoID == nil {
			continue
		}
		cg := &dg.Categories[ci]
		cg.Todos = append(cg.Todos, core.TodoView{
			TodosID:     *r.TodoID,
			Content:     r.Content,
			IsCompleted: r.IsCompleted,
		})
		dg.TotalTodosCount++
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Date < groups[j].Date })
	return groups
}
