package models

// Anime is one catalog record of the mirrored one-hot matrix. Position keeps
// the original row order of the encoded frame so the matrix can be rebuilt
// byte-for-byte. Year is nil when the source omits it.
type Anime struct {
	AnimeID  int `gorm:"primaryKey"`
	Position int `gorm:"index"`
	Title    string
	Year     *int
	Genres   []AnimeGenre `gorm:"foreignKey:AnimeID;references:AnimeID"`
}

// AnimeGenre marks one set indicator of the matrix: the record carries the
// genre. Filtered genres never reach this table.
type AnimeGenre struct {
	ID      uint   `gorm:"primaryKey"`
	AnimeID int    `gorm:"index"`
	Genre   string `gorm:"index"`
}
