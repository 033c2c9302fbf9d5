// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database.
//
// Tests locate the database through TASKBOARD_TEST_DB_URL or DATABASE_URL and
// are skipped when neither is set. GetTestDB applies the embedded goose
// migrations once per test binary. WithTx runs each test inside a
// transaction that is always rolled back, so tests can run in parallel
// without seeing each other's rows:
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDB(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			user := testdb.CreateTestUser(t, tx, "Jane Smith")
//			// ...
//		})
//	}
package testdb
