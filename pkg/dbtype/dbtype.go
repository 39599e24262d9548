package dbtype

import (
	"fmt"
	"strconv"
)

// Int64 normalises a value handed to sql.Scanner into an int64.
// Drivers differ: pgx returns int64, sqlite may return int64 or a textual
// representation for columns declared without affinity.
func Int64(src any) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, fmt.Errorf("cannot scan NULL into enum")
	default:
		return 0, fmt.Errorf("cannot scan %T into enum", src)
	}
}
