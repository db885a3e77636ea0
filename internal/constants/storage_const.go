package constants

// Default Storage Locations
const (
	DefaultDataDir      = "./datos"
	DefaultAccountsFile = "cuentas.json"
	DefaultRecipesFile  = "recetas.json"
	DefaultStaticDir    = "./static"
	DefaultUploadDir    = "./static/uploads"
	DefaultUploadURL    = "/static/uploads"
)

// Upload Purposes name the sub-directory an image is written to.
const (
	PurposeRecipe  = "recetas"
	PurposeProfile = "perfiles"
)

// Object Store Drivers
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

// Recipe Identifiers
const (
	IndexIDPrefix = "receta-"
)

// Weekly Menu Days, in display order.
var MenuDays = []string{"lunes", "martes", "miercoles", "jueves", "viernes", "sabado", "domingo"}

// Weekly Menu Slots, in display order.
var MenuSlots = []string{"desayuno", "aperitivo", "comida", "merienda", "cena"}

// Image Intake
const (
	DataURIPrefix   = "data:"
	ThumbnailPrefix = "thumb_"
)

// AllowedImageTypes maps every accepted image MIME type to its file extension.
var AllowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}
