package constants

// Base Routes
const (
	APIBasePath = "/api"
	HealthPath  = "/health"
	VersionPath = "/version"
	MetricsPath = "/metrics"
	StaticPath  = "/static"
)

// Account Routes
const (
	RegisterPath       = "/crear-cuenta"
	LoginPath          = "/iniciar-sesion"
	LogoutPath         = "/cerrar-sesion"
	SessionStatePath   = "/api/estado-usuario"
	ProfilePath        = "/api/perfil"
	UpdateUserPath     = "/api/actualizar-usuario"
	ChangePasswordPath = "/api/cambiar-password"
	UploadPhotoPath    = "/api/subir-foto-perfil"
	DeletePhotoPath    = "/api/eliminar-foto-perfil"
)

// Recipe Routes
const (
	CreateRecipePath   = "/crear-receta"
	SaveRecipePath     = "/guardar-receta"
	UnsaveRecipePath   = "/desguardar-receta"
	DeleteRecipePath   = "/eliminar-receta"
	PublishRecipePath  = "/publicar-receta"
	MyRecipesPath      = "/api/mis-recetas"
	CommunityPath      = "/api/recetas-comunidad"
	UserRecipesPath    = "/api/recetas/usuario"
	RecipeDetailPath   = "/api/receta/{id}"
	RecipePDFPath      = "/api/receta/{id}/pdf"
	RecipeIDByNamePath = "/api/receta-id/{nombre}"
	CommentRecipePath  = "/api/comentar-receta"
	RateRecipePath     = "/api/valorar-receta"
	RecipeRatingPath   = "/api/valoracion-receta/{id}"
	SavedRecipesPath   = "/obtener-recetas-guardadas"
)

// Weekly Menu Routes
const (
	MenuPath       = "/api/menu-semanal"
	MenuAutoPath   = "/api/menu-semanal/crear-automatico"
	MenuManualPath = "/api/menu-semanal/guardar-manual"
)

// URL Parameters
const (
	ParamID   = "id"
	ParamName = "nombre"
)

// Multipart form fields
const (
	FormFieldFile = "archivo"
)
