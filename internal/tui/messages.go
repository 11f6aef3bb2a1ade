package tui

import (
	"github.com/matheuskafuri/timeportal/internal/search"
	"github.com/matheuskafuri/timeportal/internal/update"
)

type searchDoneMsg struct {
	outcome search.Outcome
}

type updateCheckedMsg struct {
	result *update.Result
}

type openErrMsg struct {
	err error
}
