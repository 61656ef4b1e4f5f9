package sqlxrepos

import "github.com/volatiletech/null/v8"

func nullInt64(id int64) null.Int64 {
	return null.Int64From(id)
}
