// Package postgres implements the store interfaces against a PostgreSQL
// database using database/sql with the pgx stdlib driver.
package postgres
