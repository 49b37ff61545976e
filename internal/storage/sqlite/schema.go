package sqlite

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

-- One row per database; store_id names this database in shared caches.
CREATE TABLE IF NOT EXISTS store_meta (
    meta_key   TEXT PRIMARY KEY,
    meta_value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cities (
    city_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name    TEXT NOT NULL UNIQUE,
    state   TEXT NOT NULL,
    zip     TEXT
);

-- Dimension tables: one row per distinct label, ever.
CREATE TABLE IF NOT EXISTS prices (
    price_id INTEGER PRIMARY KEY AUTOINCREMENT,
    label    TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS categories (
    category_id INTEGER PRIMARY KEY AUTOINCREMENT,
    label       TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS property_types (
    property_id INTEGER PRIMARY KEY AUTOINCREMENT,
    label       TEXT NOT NULL UNIQUE
);

-- Fact tables: keyed by the upstream id, inserted once and never updated.
CREATE TABLE IF NOT EXISTS restaurants (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    city_id      INTEGER NOT NULL REFERENCES cities(city_id),
    rating       REAL NOT NULL DEFAULT 0.0,
    review_count INTEGER NOT NULL DEFAULT 0,
    price_id     INTEGER REFERENCES prices(price_id),
    category_id  INTEGER REFERENCES categories(category_id)
);

CREATE INDEX IF NOT EXISTS idx_restaurants_city ON restaurants(city_id);

CREATE TABLE IF NOT EXISTS rentals (
    listing_id        TEXT PRIMARY KEY,
    city_id           INTEGER NOT NULL REFERENCES cities(city_id),
    formatted_address TEXT,
    bedrooms          INTEGER,
    bathrooms         REAL,
    price             REAL,
    property_id       INTEGER REFERENCES property_types(property_id)
);

CREATE INDEX IF NOT EXISTS idx_rentals_city ON rentals(city_id);
`
