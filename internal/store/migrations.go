package store

// migrationsSQL contains all database migrations, applied in order by
// version number. Statements stick to syntax both SQLite and Postgres
// accept, so one migration set serves both drivers.
var migrationsSQL = map[int]string{
	1: migrationV1Locations,
	2: migrationV2SeedCities,
}

// migrationV1Locations creates the location catalog.
//
// Locations are keyed by slug (lowercased name, spaces to hyphens) because
// that is what API clients send. Coordinates are stored in decimal degrees,
// timezone as an IANA name resolved at request time.
const migrationV1Locations = `
CREATE TABLE IF NOT EXISTS locations (
    slug TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    latitude DOUBLE PRECISION NOT NULL,
    longitude DOUBLE PRECISION NOT NULL,
    timezone TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_locations_name ON locations(name);
`

// migrationV2SeedCities loads the supported city list. Re-running is safe:
// existing rows win, so locally edited coordinates survive a restart.
const migrationV2SeedCities = `
INSERT INTO locations (slug, name, latitude, longitude, timezone) VALUES
    ('bengaluru', 'Bengaluru', 12.9719, 77.593, 'Asia/Kolkata'),
    ('coventry', 'Coventry', 52.40656, -1.51217, 'Europe/London'),
    ('new-york', 'New York', 40.7128, -74.006, 'America/New_York'),
    ('lima', 'Lima', -12.0464, -77.0428, 'America/Lima'),
    ('harare', 'Harare', -17.8292, 31.0522, 'Africa/Harare'),
    ('canberra', 'Canberra', -35.2809, 149.13, 'Australia/Canberra')
ON CONFLICT (slug) DO NOTHING;
`
