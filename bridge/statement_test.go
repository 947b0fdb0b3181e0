package bridge_test

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/viant/fetchly/bridge"
	"github.com/viant/fetchly/driver"
	"github.com/viant/fetchly/fetch"
	"github.com/viant/fetchly/types"
)

func openSQLite(t *testing.T, initSQL []string) *sql.DB {
	dsn := "/tmp/fetchly_bridge.db"
	_ = os.Remove(dsn)
	db, err := sql.Open("sqlite3", dsn)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	for _, SQL := range initSQL {
		_, err = db.Exec(SQL)
		if !assert.Nil(t, err, SQL) {
			t.FailNow()
		}
	}
	return db
}

func TestStatement_Query(t *testing.T) {
	created := time.Date(2023, 7, 15, 8, 30, 0, 0, time.UTC)
	db := openSQLite(t, []string{
		"CREATE TABLE IF NOT EXISTS products (id INTEGER PRIMARY KEY, name VARCHAR(16), price DECIMAL(10,2), active BOOLEAN, payload BLOB, created TIMESTAMP, comment TEXT)",
		"DELETE FROM products",
	})
	defer db.Close()
	_, err := db.Exec("INSERT INTO products VALUES(?, ?, ?, ?, ?, ?, ?), (?, ?, ?, ?, ?, ?, ?), (?, ?, ?, ?, ?, ?, ?)",
		1, "bolt", "12.50", true, []byte{0x01, 0x02}, created, "restock soon",
		2, nil, nil, false, nil, created, nil,
		3, "nut", "0.75", true, []byte{0x03}, created, "plenty")
	if !assert.Nil(t, err) {
		return
	}

	stmt, err := bridge.Query(context.Background(), db, driver.DetectPlatform(), "SELECT id, name, price, active, payload, created, comment FROM products ORDER BY id")
	if !assert.Nil(t, err) {
		return
	}
	reader := fetch.NewReader(stmt, fetch.WithBatchSize(2))
	defer reader.Close(context.Background())

	var collected []fetch.Row
	err = reader.FetchAll(context.Background(), func(row fetch.Row) error {
		collected = append(collected, row)
		return nil
	})
	if !assert.Nil(t, err) {
		return
	}
	if !assert.Equal(t, 3, len(collected)) {
		return
	}

	first := collected[0]
	id, ok := first.Int64("id")
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
	name, ok := first.String("name")
	assert.True(t, ok)
	assert.Equal(t, "bolt", name)
	price, ok := first.Decimal("price")
	assert.True(t, ok)
	assert.Equal(t, "12.50", price.String())
	active, ok := first.Bool("active")
	assert.True(t, ok)
	assert.True(t, active)
	payload, ok := first.Bytes("payload")
	assert.True(t, ok)
	assert.Equal(t, []byte{0x01, 0x02}, payload)
	when, ok := first.Time("created")
	assert.True(t, ok)
	assert.True(t, when.Equal(created))
	comment, ok := first.String("comment")
	assert.True(t, ok)
	assert.Equal(t, "restock soon", comment)

	second := collected[1]
	for _, column := range []string{"name", "price", "payload", "comment"} {
		value, ok := second.Lookup(column)
		assert.True(t, ok, column)
		assert.Nil(t, value, column)
	}

	stats := reader.Stats()
	assert.Equal(t, 1, stats.ContextBuilds)
	assert.Equal(t, 2, stats.Batches)
	assert.Equal(t, 3, stats.Rows)
}

func TestStatement_LongValues(t *testing.T) {
	body := strings.Repeat("fetchly long value ", 600)
	db := openSQLite(t, []string{
		"CREATE TABLE IF NOT EXISTS notes (id INTEGER PRIMARY KEY, body TEXT)",
		"DELETE FROM notes",
	})
	defer db.Close()
	_, err := db.Exec("INSERT INTO notes VALUES(?, ?), (?, ?)", 1, body, 2, nil)
	if !assert.Nil(t, err) {
		return
	}

	var testCases = []struct {
		description string
		options     []fetch.Option
	}{
		{
			description: "inline buffer overflow recovered through long data reads",
			options:     []fetch.Option{fetch.WithLongBufferSize(64)},
		},
		{
			description: "deferred long columns read per cell",
			options:     []fetch.Option{fetch.WithDeferredLong(true)},
		},
	}

	for _, testCase := range testCases {
		rows, err := db.Query("SELECT id, body FROM notes ORDER BY id")
		if !assert.Nil(t, err, testCase.description) {
			return
		}
		reader := fetch.NewReader(bridge.New(driver.DetectPlatform(), rows), testCase.options...)
		fetched, err := reader.Fetch(context.Background(), 10)
		assert.Nil(t, err, testCase.description)
		if !assert.Equal(t, 2, len(fetched), testCase.description) {
			return
		}
		actual, ok := fetched[0].String("body")
		assert.True(t, ok, testCase.description)
		assert.Equal(t, body, actual, testCase.description)
		value, ok := fetched[1].Lookup("body")
		assert.True(t, ok, testCase.description)
		assert.Nil(t, value, testCase.description)
		assert.Nil(t, reader.Close(context.Background()), testCase.description)
	}
}

func TestStatement_SingleResultSet(t *testing.T) {
	db := openSQLite(t, []string{
		"CREATE TABLE IF NOT EXISTS t1 (id INTEGER PRIMARY KEY)",
		"DELETE FROM t1",
		"INSERT INTO t1 VALUES(1)",
	})
	defer db.Close()
	rows, err := db.Query("SELECT id FROM t1")
	if !assert.Nil(t, err) {
		return
	}
	reader := fetch.NewReader(bridge.New(driver.DetectPlatform(), rows))
	defer reader.Close(context.Background())
	fetched, err := reader.Fetch(context.Background(), 10)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(fetched))
	ok, err := reader.NextResultSet(context.Background())
	assert.Nil(t, err)
	assert.False(t, ok)
	assert.True(t, reader.Exhausted())
}

func TestStatement_MySQL(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN is not set")
	}
	db, err := sql.Open("mysql", dsn)
	if !assert.Nil(t, err) {
		return
	}
	defer db.Close()
	for _, SQL := range []string{
		"DROP TABLE IF EXISTS fetchly_products",
		"CREATE TABLE fetchly_products (id BIGINT NOT NULL, name VARCHAR(16), price DECIMAL(10,2), active TINYINT, created DATETIME)",
		"INSERT INTO fetchly_products VALUES(1, 'bolt', 12.50, 1, '2023-07-15 08:30:00'), (2, NULL, NULL, 0, NULL)",
	} {
		if _, err = db.Exec(SQL); !assert.Nil(t, err, SQL) {
			return
		}
	}

	rows, err := db.Query("SELECT id, name, price, active, created FROM fetchly_products ORDER BY id")
	if !assert.Nil(t, err) {
		return
	}
	reader := fetch.NewReader(bridge.New(driver.DetectPlatform(), rows))
	defer reader.Close(context.Background())
	fetched, err := reader.Fetch(context.Background(), 10)
	assert.Nil(t, err)
	if !assert.Equal(t, 2, len(fetched)) {
		return
	}
	id, _ := fetched[0].Int64("id")
	assert.Equal(t, int64(1), id)
	price, ok := fetched[0].Decimal("price")
	assert.True(t, ok)
	assert.Equal(t, "12.50", price.String())
	when, ok := fetched[0].Time("created")
	assert.True(t, ok)
	assert.Equal(t, 2023, when.Year())
	value, ok := fetched[1].Lookup("price")
	assert.True(t, ok)
	assert.Nil(t, value)
}

func TestStatement_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN is not set")
	}
	db, err := sql.Open("postgres", dsn)
	if !assert.Nil(t, err) {
		return
	}
	defer db.Close()
	for _, SQL := range []string{
		"DROP TABLE IF EXISTS fetchly_products",
		"CREATE TABLE fetchly_products (id BIGINT NOT NULL, name VARCHAR(16), price NUMERIC(10,2), active BOOLEAN, payload BYTEA, created TIMESTAMPTZ)",
		"INSERT INTO fetchly_products VALUES(1, 'bolt', 12.50, TRUE, '\\x0102', '2023-07-15 08:30:00+00'), (2, NULL, NULL, FALSE, NULL, NULL)",
	} {
		if _, err = db.Exec(SQL); !assert.Nil(t, err, SQL) {
			return
		}
	}

	rows, err := db.Query("SELECT id, name, price, active, payload, created FROM fetchly_products ORDER BY id")
	if !assert.Nil(t, err) {
		return
	}
	reader := fetch.NewReader(bridge.New(driver.DetectPlatform(), rows))
	defer reader.Close(context.Background())
	fetched, err := reader.Fetch(context.Background(), 10)
	assert.Nil(t, err)
	if !assert.Equal(t, 2, len(fetched)) {
		return
	}
	price, ok := fetched[0].Decimal("price")
	assert.True(t, ok)
	expected, err := types.NewDecimalFromString("12.50", 2)
	assert.Nil(t, err)
	assert.True(t, price.Equal(expected))
	active, ok := fetched[0].Bool("active")
	assert.True(t, ok)
	assert.True(t, active)
	payload, ok := fetched[0].Bytes("payload")
	assert.True(t, ok)
	assert.Equal(t, []byte{0x01, 0x02}, payload)
	when, ok := fetched[0].Time("created")
	assert.True(t, ok)
	assert.Equal(t, 15, when.UTC().Day())
}
