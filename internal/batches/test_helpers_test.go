package batches

// sqlite cannot parse the text[] column type on products, so that table is
// created by hand; the remaining models AutoMigrate cleanly.
const productsTableSQL = `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT,
  category TEXT,
  description TEXT,
  benefits TEXT,
  ai_features TEXT,
  price INTEGER NOT NULL,
  sale_price INTEGER,
  is_on_sale INTEGER NOT NULL DEFAULT 0,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  expiry_date DATETIME,
  image_url TEXT,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
