package database

// Statements run one at a time: pgx's extended protocol accepts a single statement per call.
// The touch triggers keep updated_at strictly increasing even when two writes
// land on the same clock tick.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS resources (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT     NOT NULL CHECK (trim(name) <> ''),
		description TEXT     NOT NULL CHECK (trim(description) <> ''),
		category    TEXT     NOT NULL CHECK (trim(category) <> ''),
		price       REAL     NOT NULL CHECK (price >= 0),
		quantity    INTEGER  NOT NULL CHECK (quantity >= 0),
		created_at  DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now')),
		updated_at  DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_category ON resources (category)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_created_at ON resources (created_at)`,
	`CREATE TRIGGER IF NOT EXISTS resources_touch_updated_at
	AFTER UPDATE ON resources
	FOR EACH ROW
	BEGIN
		UPDATE resources SET updated_at = CASE
			WHEN strftime('%Y-%m-%d %H:%M:%f', 'now') > OLD.updated_at THEN strftime('%Y-%m-%d %H:%M:%f', 'now')
			ELSE strftime('%Y-%m-%d %H:%M:%f', OLD.updated_at, '+0.001 seconds')
		END
		WHERE id = NEW.id;
	END`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS resources (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT             NOT NULL CHECK (btrim(name) <> ''),
		description TEXT             NOT NULL CHECK (btrim(description) <> ''),
		category    TEXT             NOT NULL CHECK (btrim(category) <> ''),
		price       DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		quantity    BIGINT           NOT NULL CHECK (quantity >= 0),
		created_at  TIMESTAMPTZ      NOT NULL DEFAULT clock_timestamp(),
		updated_at  TIMESTAMPTZ      NOT NULL DEFAULT clock_timestamp()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_category ON resources (category)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_created_at ON resources (created_at)`,
	`CREATE OR REPLACE FUNCTION resources_touch_updated_at() RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = GREATEST(clock_timestamp(), OLD.updated_at + interval '1 microsecond');
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS resources_touch_updated_at ON resources`,
	`CREATE TRIGGER resources_touch_updated_at
	BEFORE UPDATE ON resources
	FOR EACH ROW EXECUTE FUNCTION resources_touch_updated_at()`,
}
