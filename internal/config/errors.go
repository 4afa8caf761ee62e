package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownDBEngine error if config db.engine is not supported.
	ErrUnknownDBEngine = errors.New("toml config db.engine must be sqlite, postgres or mysql")

	// ErrDBPathIsEmpty error if the sqlite engine has no db.path.
	ErrDBPathIsEmpty = errors.New("toml config db.path can not be empty for sqlite")

	// ErrDBHostOrNameIsEmpty error if a server engine misses db.host or db.name.
	ErrDBHostOrNameIsEmpty = errors.New("toml config db.host and db.name can not be empty")
)
