// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines the machine-readable codes placed in the
// codigo_error field of failed responses, together with the user-facing messages
// that accompany them. Clients branch on the codes, so they are part of the public
// contract and must not change between releases.
package constants

// Error Codes are returned in the codigo_error field of the response envelope.
const (
	// CodeInternalError is used for any unexpected failure.
	CodeInternalError = "INTERNAL_ERROR"

	// CodeNotAuthenticated is used when a registered session is required.
	CodeNotAuthenticated = "USUARIO_NO_AUTENTICADO"

	// CodeEmailNotFound is used when the session carries no usable email.
	CodeEmailNotFound = "EMAIL_NO_ENCONTRADO"

	// CodeInvalidPassword is used when a password breaks the password policy.
	CodeInvalidPassword = "PASSWORD_INVALIDO"

	// CodeDuplicateEmail is used when registering an email that already has an account.
	CodeDuplicateEmail = "EMAIL_DUPLICADO"

	// CodeInvalidEmail is used when the email fails format or reputation checks.
	CodeInvalidEmail = "EMAIL_INVALIDO"

	// CodeInvalidCredentials is used on a failed login.
	CodeInvalidCredentials = "CREDENCIALES_INCORRECTAS"

	// CodeSaveFailed is used when a store could not be written.
	CodeSaveFailed = "ERROR_GUARDADO"

	// CodeValidation is used for malformed or missing request fields.
	CodeValidation = "DATOS_INVALIDOS"

	// CodeRecipeNotFound is used when a recipe reference does not resolve.
	CodeRecipeNotFound = "RECETA_NO_ENCONTRADA"

	// CodeUserNotFound is used when the session account no longer exists.
	CodeUserNotFound = "USUARIO_NO_ENCONTRADO"

	// CodeForbidden is used when the caller does not own the recipe.
	CodeForbidden = "SIN_PERMISO"

	// CodeEmptyComment is used for blank comments.
	CodeEmptyComment = "COMENTARIO_VACIO"

	// CodeCommentTooLong is used for comments over MaxCommentLength runes.
	CodeCommentTooLong = "COMENTARIO_MUY_LARGO"

	// CodeInvalidScore is used for ratings outside 1..5.
	CodeInvalidScore = "PUNTUACION_INVALIDA"

	// CodeImageType is used when the image MIME type is not allowed.
	CodeImageType = "IMAGEN_TIPO_NO_PERMITIDO"

	// CodeImageInvalid is used when the image payload cannot be decoded.
	CodeImageInvalid = "IMAGEN_INVALIDA"

	// CodeImageEmpty is used when the image payload is empty.
	CodeImageEmpty = "IMAGEN_VACIA"

	// CodeImageTooLarge is used when the image exceeds MaxImageSize.
	CodeImageTooLarge = "IMAGEN_MUY_GRANDE"

	// CodeInvalidMenu is used when a weekly menu has unknown days or slots.
	CodeInvalidMenu = "MENU_INVALIDO"

	// CodePasswordMismatch is used when the new password and its confirmation differ.
	CodePasswordMismatch = "PASSWORD_NO_COINCIDE"

	// CodeWrongPassword is used when the current password is wrong on change.
	CodeWrongPassword = "PASSWORD_ACTUAL_INCORRECTO"

	// CodeTooManyRequests is used by the rate limiter.
	CodeTooManyRequests = "DEMASIADAS_PETICIONES"

	// CodeNotFound is used for unknown routes.
	CodeNotFound = "NO_ENCONTRADO"

	// CodeMethodNotAllowed is used for unsupported methods on known routes.
	CodeMethodNotAllowed = "METODO_NO_PERMITIDO"

	// CodeServiceUnavailable is used by the health check when a store is unusable.
	CodeServiceUnavailable = "SERVICIO_NO_DISPONIBLE"
)

// Success Messages
const (
	MsgAccountCreated   = "Cuenta creada con éxito"
	MsgLoginOK          = "Inicio de sesión exitoso"
	MsgLogoutOK         = "Cuenta cerrada con éxito"
	MsgRecipeCreated    = "Receta creada con éxito"
	MsgRecipeUpdated    = "Receta actualizada con éxito"
	MsgRecipeDeleted    = "Receta eliminada con éxito"
	MsgRecipePublished  = "Receta publicada con éxito"
	MsgRecipeSaved      = "Receta guardada correctamente"
	MsgRecipeUnsaved    = "Receta eliminada de guardadas"
	MsgRecipesLoaded    = "Recetas obtenidas correctamente"
	MsgRecipeLoaded     = "Receta obtenida correctamente"
	MsgCommentAdded     = "Comentario añadido correctamente"
	MsgRatingSaved      = "Valoración guardada correctamente"
	MsgRatingLoaded     = "Valoración obtenida correctamente"
	MsgProfileLoaded    = "Perfil obtenido correctamente"
	MsgUserUpdated      = "Usuario actualizado correctamente"
	MsgPasswordChanged  = "Contraseña actualizada correctamente"
	MsgPhotoUploaded    = "Foto de perfil actualizada correctamente"
	MsgPhotoDeleted     = "Foto de perfil eliminada correctamente"
	MsgMenuLoaded       = "Menú semanal obtenido correctamente"
	MsgMenuGenerated    = "Menú semanal generado correctamente"
	MsgMenuSaved        = "Menú semanal guardado correctamente"
	MsgMenuDeleted      = "Menú semanal eliminado correctamente"
	MsgOperationSuccess = "Operación realizada correctamente"
	MsgSessionState     = "Estado de sesión obtenido"
	MsgRecipeIDFound    = "Identificador de receta obtenido"
	MsgHealthy          = "Servicio operativo"
	MsgVersion          = "Versión del servicio"
)

// Error Messages
const (
	MsgInternalServerError  = "Error interno del servidor"
	MsgNotAuthenticated     = "Debes estar registrado para realizar esta acción"
	MsgEmailNotFound        = "No se pudo identificar al usuario"
	MsgDuplicateEmail       = "Ya existe una cuenta con este email"
	MsgInvalidCredentials   = "No se encuentra cuenta creada para iniciar sesión"
	MsgSaveFailed           = "Error al guardar los datos"
	MsgValidation           = "Error de validación en los datos proporcionados"
	MsgRecipeNotFound       = "Receta no encontrada"
	MsgUserNotFound         = "Usuario no encontrado"
	MsgForbidden            = "No tienes permiso para modificar esta receta"
	MsgEmptyComment         = "El comentario no puede estar vacío"
	MsgCommentTooLong       = "El comentario no puede superar los 500 caracteres"
	MsgInvalidScore         = "La puntuación debe estar entre 1 y 5"
	MsgImageType            = "Tipo de imagen no permitido"
	MsgImageInvalid         = "La imagen no es válida"
	MsgImageEmpty           = "La imagen está vacía"
	MsgImageTooLarge        = "La imagen supera el tamaño máximo de 5MB"
	MsgInvalidEmail         = "El email no es válido"
	MsgEmailUnverifiable    = "No se pudo verificar el email"
	MsgInvalidMenu          = "El menú semanal no es válido"
	MsgPasswordMismatch     = "Las contraseñas no coinciden"
	MsgWrongPassword        = "La contraseña actual no es correcta"
	MsgTooManyRequests      = "Demasiadas peticiones. Inténtalo más tarde"
	MsgNotFound             = "Recurso no encontrado"
	MsgMethodNotAllowed     = "Método no permitido"
	MsgServiceUnavailable   = "El servicio no está disponible"
	MsgRequestBodyTooLarge  = "El cuerpo de la petición es demasiado grande"
	MsgEmptyRequestBody     = "El cuerpo de la petición está vacío"
	MsgMalformedJSON        = "El cuerpo de la petición contiene JSON mal formado"
	MsgMissingFile          = "No se ha recibido ningún archivo"
	MsgPasswordTooShort     = "La contraseña debe tener al menos 8 caracteres"
	MsgPasswordNoUppercase  = "La contraseña debe contener al menos una letra mayúscula"
	MsgPasswordNoLowercase  = "La contraseña debe contener al menos una letra minúscula"
	MsgPasswordNoDigit      = "La contraseña debe contener al menos un número"
	MsgMissingRecipeName    = "El nombre de la receta es obligatorio"
	MsgMissingOriginalName  = "Falta el nombre original de la receta a editar"
	MsgMissingRecipeRef     = "Falta el identificador de la receta"
	MsgInvalidRecipeRequest = "Petición de receta no válida"
)
