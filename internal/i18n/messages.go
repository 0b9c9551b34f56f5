package i18n

// Message keys.
const (
	AppTitle        = "app.title"
	FolderFallback  = "folder.fallback"
	EmptyTitle      = "empty.title"
	EmptySubtitle   = "empty.subtitle"
	WarningLocal    = "warning.local"
	SettingsTip     = "settings.tip"
	Attribution     = "settings.attribution"
	TypeSpeak       = "editor.type.speak"
	TypeFolder      = "editor.type.folder"
	AudioStatus     = "editor.audio.status"
	TTSStatus       = "editor.tts.status"
	ParentUnlocked  = "mode.parent_unlocked"
	ChildLocked     = "mode.child_locked"
	Updated         = "toast.updated"
	Added           = "toast.added"
	FolderNotEmpty  = "toast.folder_not_empty"
	Deleted         = "toast.deleted"
	BackupExported  = "toast.backup_exported"
	InvalidBackup   = "toast.invalid_backup"
	BackupImported  = "toast.backup_imported"
	ImportFailed    = "toast.import_failed"
	LibraryError    = "library.error"
	LibraryEmpty    = "library.empty"
	CardNotFound    = "error.not_found"
	CardInvalid     = "error.invalid_card"
	ParentMissing   = "error.parent_missing"
	ParentNotFolder = "error.parent_not_folder"
	FolderCycle     = "error.cycle"
	DuplicateCard   = "error.duplicate"
	AssetMissing    = "error.asset_unavailable"
	TooLarge        = "error.too_large"
	Unexpected      = "error.unexpected"
)

var catalog = map[string]map[string]string{
	"en": {
		AppTitle:        "MamanVoice",
		FolderFallback:  "Folder",
		EmptyTitle:      "Nothing here yet",
		EmptySubtitle:   "Unlock Parent Mode to add cards.",
		WarningLocal:    "Warning: Data is saved LOCALLY. Export backup (in Settings) to save progress.",
		SettingsTip:     "Tip: keep your backup file somewhere safe (Google Drive, email, etc.).",
		Attribution:     "Pictograms by Mulberry Symbols (CC-BY-SA)",
		TypeSpeak:       "Speak",
		TypeFolder:      "Folder",
		AudioStatus:     "Audio",
		TTSStatus:       "TTS",
		ParentUnlocked:  "Parent mode unlocked",
		ChildLocked:     "Child mode locked",
		Updated:         "Updated",
		Added:           "Added",
		FolderNotEmpty:  "This folder has cards inside. Delete them first.",
		Deleted:         "Deleted",
		BackupExported:  "Backup exported",
		InvalidBackup:   "Invalid backup file",
		BackupImported:  "Backup imported",
		ImportFailed:    "Could not import backup",
		LibraryError:    "Failed to load symbols. Please check internet.",
		LibraryEmpty:    "No symbols found for",
		CardNotFound:    "Card not found",
		CardInvalid:     "A card needs a type and a label.",
		ParentMissing:   "That folder does not exist.",
		ParentNotFolder: "Cards can only go inside a folder.",
		FolderCycle:     "A folder cannot go inside itself.",
		DuplicateCard:   "A card with this ID already exists.",
		AssetMissing:    "The image or audio could not be read.",
		TooLarge:        "The file is too large.",
		Unexpected:      "Something went wrong",
	},
	"ms": {
		AppTitle:        "MamanVoice",
		FolderFallback:  "Folder",
		EmptyTitle:      "Tiada apa-apa di sini",
		EmptySubtitle:   "Buka Mod Ibu Bapa untuk menambah kad.",
		WarningLocal:    "Amaran: Data disimpan SECARA LOKAL. Eksport sandaran (dalam Tetapan) untuk simpan.",
		SettingsTip:     "Tip: simpan fail sandaran anda di tempat selamat (Google Drive, e-mel, dll.).",
		Attribution:     "Piktogram oleh Mulberry Symbols (CC-BY-SA)",
		TypeSpeak:       "Cakap",
		TypeFolder:      "Folder",
		AudioStatus:     "Audio",
		TTSStatus:       "TTS",
		ParentUnlocked:  "Mod Ibu Bapa dibuka",
		ChildLocked:     "Mod Anak dikunci",
		Updated:         "Dikemaskini",
		Added:           "Ditambah",
		FolderNotEmpty:  "Folder ini ada kad di dalamnya. Padam kad dahulu.",
		Deleted:         "Dibuang",
		BackupExported:  "Sandaran dieksport",
		InvalidBackup:   "Fail sandaran tidak sah",
		BackupImported:  "Sandaran diimport",
		ImportFailed:    "Gagal mengimport sandaran",
		LibraryError:    "Gagal memuat turun simbol. Sila semak internet.",
		LibraryEmpty:    "Tiada simbol dijumpai untuk",
		CardNotFound:    "Kad tidak dijumpai",
		CardInvalid:     "Kad perlu ada jenis dan label.",
		ParentMissing:   "Folder itu tidak wujud.",
		ParentNotFolder: "Kad hanya boleh diletakkan di dalam folder.",
		FolderCycle:     "Folder tidak boleh berada di dalam dirinya sendiri.",
		DuplicateCard:   "Kad dengan ID ini sudah wujud.",
		AssetMissing:    "Gambar atau audio tidak dapat dibaca.",
		TooLarge:        "Fail terlalu besar.",
		Unexpected:      "Sesuatu tidak kena",
	},
}
