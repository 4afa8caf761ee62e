package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldcrew/crewaccess/internal/config"
)

func TestCreate(t *testing.T) {
	testCases := []struct {
		name string
		cfg  config.DB
		want string
	}{
		{
			name: "sqlite uses the file path",
			cfg:  config.DB{Engine: config.EngineSQLite, Path: "./data/crewaccess.db"},
			want: "./data/crewaccess.db",
		},
		{
			name: "postgres key value form",
			cfg: config.DB{
				Engine:   config.EnginePostgres,
				Host:     "db",
				Port:     5432,
				User:     "crew",
				Password: "secret",
				Name:     "access",
				Extras:   "sslmode=disable",
			},
			want: "host=db port=5432 user=crew password=secret dbname=access sslmode=disable",
		},
		{
			name: "postgres without extras",
			cfg: config.DB{
				Engine: config.EnginePostgres,
				Host:   "db",
				Port:   5432,
				User:   "crew",
				Name:   "access",
			},
			want: "host=db port=5432 user=crew password= dbname=access",
		},
		{
			name: "mysql tcp form",
			cfg: config.DB{
				Engine:   config.EngineMySQL,
				Host:     "db",
				Port:     3306,
				User:     "crew",
				Password: "secret",
				Name:     "access",
				Extras:   "parseTime=true",
			},
			want: "crew:secret@tcp(db:3306)/access?parseTime=true",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Create(tc.cfg))
		})
	}
}
