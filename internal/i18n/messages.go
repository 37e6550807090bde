package i18n

import (
	"golang.org/x/text/language"

	"github.com/modkeeper/modkeeper/internal/domain"
)

const (
	keyUnexpected = "error.fallback.unexpected"
	keyUnknown    = "error.fallback.unknown"
)

func kindKey(kind domain.ErrorKind) string {
	return "error." + string(kind)
}

// Structured messages take the payload as their only argument.
var messages = map[language.Tag]map[string]string{
	language.English: {
		keyUnexpected: "An unexpected error occurred. Try again, and restart the backend if it keeps happening.",
		keyUnknown:    "An unknown error occurred. Updating the application may fix this.",

		kindKey(domain.KindGameOrServerRunning):    "The game or the SPT server is running. Close both and try again.",
		kindKey(domain.KindProcessRunning):         "Another operation is still running. Wait for it to finish and try again.",
		kindKey(domain.KindUnableToDetermineModID): "Could not determine the mod's id. Make sure the archive contains a valid mod.",
		kindKey(domain.KindLink):                   "Could not link mod files into the game folder. Check folder permissions.",
		kindKey(domain.KindContextUnprovided):      "The operation started without a task context. Restart the application.",
		kindKey(domain.KindNoActiveLibrary):        "No library is open. Open or create a library first.",
		kindKey(domain.KindUnexpected):             "The backend hit an unexpected condition. Check its log for details.",

		kindKey(domain.KindUnsupportedSPTVersion):   "SPT version %s is not supported.",
		kindKey(domain.KindParseError):              "Could not read data: %s",
		kindKey(domain.KindIOError):                 "File system error: %s",
		kindKey(domain.KindModNotFound):             "Mod not found: %s",
		kindKey(domain.KindFileOrDirectoryNotFound): "File or folder not found: %s",
		kindKey(domain.KindFileCollision):           "These files are already provided by another mod: %s",
		kindKey(domain.KindUnhandledCompression):    "Unsupported archive format: %s",
		kindKey(domain.KindAsyncRuntimeError):       "A background task failed: %s",
		kindKey(domain.KindUpdateStatusError):       "Could not report task progress: %s",
	},
	language.French: {
		keyUnexpected: "Une erreur inattendue s'est produite. Réessayez, puis redémarrez le backend si elle persiste.",
		keyUnknown:    "Une erreur inconnue s'est produite. Mettre à jour l'application peut corriger ce problème.",

		kindKey(domain.KindGameOrServerRunning):    "Le jeu ou le serveur SPT est en cours d'exécution. Fermez-les et réessayez.",
		kindKey(domain.KindProcessRunning):         "Une autre opération est en cours. Attendez qu'elle se termine et réessayez.",
		kindKey(domain.KindUnableToDetermineModID): "Impossible de déterminer l'identifiant du mod. Vérifiez que l'archive contient un mod valide.",
		kindKey(domain.KindLink):                   "Impossible de lier les fichiers du mod dans le dossier du jeu. Vérifiez les permissions.",
		kindKey(domain.KindContextUnprovided):      "L'opération a démarré sans contexte de tâche. Redémarrez l'application.",
		kindKey(domain.KindNoActiveLibrary):        "Aucune bibliothèque n'est ouverte. Ouvrez ou créez une bibliothèque d'abord.",
		kindKey(domain.KindUnexpected):             "Le backend a rencontré une condition inattendue. Consultez son journal.",

		kindKey(domain.KindUnsupportedSPTVersion):   "La version SPT %s n'est pas prise en charge.",
		kindKey(domain.KindParseError):              "Impossible de lire les données : %s",
		kindKey(domain.KindIOError):                 "Erreur du système de fichiers : %s",
		kindKey(domain.KindModNotFound):             "Mod introuvable : %s",
		kindKey(domain.KindFileOrDirectoryNotFound): "Fichier ou dossier introuvable : %s",
		kindKey(domain.KindFileCollision):           "Ces fichiers sont déjà fournis par un autre mod : %s",
		kindKey(domain.KindUnhandledCompression):    "Format d'archive non pris en charge : %s",
		kindKey(domain.KindAsyncRuntimeError):       "Une tâche en arrière-plan a échoué : %s",
		kindKey(domain.KindUpdateStatusError):       "Impossible de signaler la progression : %s",
	},
}
