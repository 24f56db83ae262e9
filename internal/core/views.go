package core

// Views returned by the API. Slices are always non-nil so they encode as [].
type (
	DateGroup struct {
		Date            string          `json:"date"`
		TotalTodosCount int             `json:"totalTodosCount"`
		Categories      []CategoryGroup `json:"categories"`
	}

	CategoryGroup struct {
		CategoryID        int64      `json:"categoryId"`
		Name              string     `json:"name"`
		CategoryCreatedAt string     `json:"categoryCreatedAt"`
		Todos             []TodoView `json:"todos"`
	}

	TodoView struct {
		TodosID     int64  `json:"todosId"`
		Content     string `json:"content"`
		IsCompleted bool   `json:"isCompleted"`
	}

	DateCount struct {
		Date       string `json:"date"`
		TodosCount int    `json:"todosCount"`
	}

	// CreatedTodo is a new todo with the category context it was filed under.
	CreatedTodo struct {
		TodosID           int64  `json:"todosId"`
		Content           string `json:"content"`
		IsCompleted       bool   `json:"isCompleted"`
		CategoryID        int64  `json:"categoryId"`
		CategoryName      string `json:"categoryName"`
		CategoryCreatedAt string `json:"categoryCreatedAt"`
		TodoDate          string `json:"todoDate"`
	}

	// GroupResolution is the outcome of a find-or-create for (category, date).
	GroupResolution struct {
		GroupID           int64  `json:"groupId"`
		CategoryID        int64  `json:"categoryId"`
		CategoryName      string `json:"categoryName"`
		CategoryCreatedAt string `json:"categoryCreatedAt"`
		TodoDate          string `json:"todoDate"`
		Created           bool   `json:"-"`
	}
)
