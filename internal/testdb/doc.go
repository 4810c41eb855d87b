// Package testdb holds helpers for tests that need a real PostgreSQL database.
//
// Each test body runs inside a transaction that is rolled back when the body
// returns, so tests leave no data behind and can run in parallel against the
// same schema.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Open(t, postgres.MigrateUp)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        profiles := postgres.NewPostgresProfileStore(tx, nil)
//	        // ...
//	    })
//	}
//
// Tests are skipped when none of DATABASE_URL or ROGUETWO_TEST_DB_URL is set.
package testdb
