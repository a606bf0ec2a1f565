package folder

const (
	InsertFolder = `
		INSERT INTO folders (owner_id, name)
		VALUES ($1, $2)
		RETURNING id, owner_id, name, size_bytes, created_at, updated_at
	`
	SelectFolders = `
		SELECT id, owner_id, name, size_bytes, created_at, updated_at
		FROM folders
		WHERE owner_id = $1
		ORDER BY updated_at DESC, created_at DESC
	`
	SelectFolder = `
		SELECT id, owner_id, name, size_bytes, created_at, updated_at
		FROM folders
		WHERE id = $1 AND owner_id = $2
	`
	UpdateFolderName = `
		UPDATE folders
		SET name = $3,
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2
	`
	DeleteFolderFiles = `DELETE FROM files WHERE folder_id = $1 AND owner_id = $2`
	DeleteFolder      = `DELETE FROM folders WHERE id = $1 AND owner_id = $2`
)
