package sqlite

import (
	"github.com/Masterminds/squirrel"
)

// SQLite uses '?' placeholders.
var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
