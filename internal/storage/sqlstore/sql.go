package sqlstore

// Statements below are portable between SQLite and MySQL.

const getStoreIDSQL = `SELECT meta_value FROM store_meta WHERE meta_key = 'store_id'`

const getCityByNameSQL = `SELECT city_id, name, state, zip FROM cities WHERE name = ?`

const listCitiesSQL = `SELECT city_id, name, state, zip FROM cities ORDER BY city_id`

// zip is written at most once.
const setCityZipSQL = `UPDATE cities SET zip = ? WHERE city_id = ? AND zip IS NULL`

const countRestaurantsSQL = `SELECT COUNT(*) FROM restaurants WHERE city_id = ?`

const countRentalsSQL = `SELECT COUNT(*) FROM rentals WHERE city_id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const citySummariesSQL = `
SELECT
  c.city_id,
  c.name,
  c.state,
  c.zip,
  (SELECT COUNT(*)      FROM restaurants r WHERE r.city_id = c.city_id),
  (SELECT AVG(r.rating) FROM restaurants r WHERE r.city_id = c.city_id),
  (SELECT COUNT(*)      FROM rentals l     WHERE l.city_id = c.city_id),
  (SELECT AVG(l.price)  FROM rentals l     WHERE l.city_id = c.city_id)
FROM cities c
ORDER BY c.city_id
`

const averageRentSQL = `
SELECT c.city_id, c.name, AVG(l.price) AS average_rent
FROM rentals l
JOIN cities c ON l.city_id = c.city_id
GROUP BY c.city_id, c.name
ORDER BY c.city_id
`

const topCategoriesSQL = `
SELECT g.label, COUNT(*) AS n
FROM restaurants r
JOIN categories g ON g.category_id = r.category_id
WHERE r.city_id = ?
GROUP BY g.label
ORDER BY n DESC, g.label
LIMIT ?
`

const priceDistributionSQL = `
SELECT p.label, COUNT(*) AS n
FROM restaurants r
JOIN prices p ON p.price_id = r.price_id
GROUP BY p.label
ORDER BY n DESC, p.label
`
