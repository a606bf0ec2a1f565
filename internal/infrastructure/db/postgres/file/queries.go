package file

const (
	InsertFile = `
		INSERT INTO files (folder_id, owner_id, name, storage_key, mime_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, folder_id, owner_id, name, storage_key, mime_type, size_bytes, created_at, updated_at
	`
	SelectFiles = `
		SELECT id, folder_id, owner_id, name, storage_key, mime_type, size_bytes, created_at, updated_at
		FROM files
		WHERE folder_id = $1 AND owner_id = $2
		ORDER BY updated_at DESC, created_at DESC
	`
	SelectFile = `
		SELECT id, folder_id, owner_id, name, storage_key, mime_type, size_bytes, created_at, updated_at
		FROM files
		WHERE id = $1 AND owner_id = $2
	`
	DeleteFile = `
		DELETE FROM files
		WHERE id = $1 AND owner_id = $2
		RETURNING folder_id, size_bytes
	`
	IncrementFolderSize = `
		UPDATE folders
		SET size_bytes = size_bytes + $3,
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2
	`
	DecrementFolderSize = `
		UPDATE folders
		SET size_bytes = GREATEST(size_bytes - $3, 0),
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2
	`
)
