package python

// stdlibModules is the closed set of top-level standard-library module
// names used to classify an import's ImportSource (spec.md §4.2). Not
// exhaustive of every stdlib module ever shipped, but covers the modules
// that actually show up in application code.
var stdlibModules = map[string]bool{
	"os": true, "sys": true, "json": true, "re": true, "time": true,
	"datetime": true, "collections": true, "itertools": true, "functools": true,
	"typing": true, "pathlib": true, "asyncio": true, "threading": true,
	"multiprocessing": true, "socket": true, "http": true, "urllib": true,
	"logging": true, "unittest": true, "abc": true, "dataclasses": true,
	"enum": true, "io": true, "math": true, "random": true, "string": true,
	"subprocess": true, "sqlite3": true, "xml": true, "email": true,
	"csv": true, "argparse": true, "configparser": true, "copy": true,
	"contextlib": true, "queue": true, "struct": true, "hashlib": true,
	"hmac": true, "base64": true, "uuid": true, "shutil": true,
	"tempfile": true, "glob": true, "pickle": true, "traceback": true,
	"warnings": true, "weakref": true, "inspect": true, "importlib": true,
	"ast": true, "textwrap": true, "unicodedata": true, "locale": true,
	"gettext": true, "calendar": true, "zoneinfo": true, "decimal": true,
	"fractions": true, "statistics": true, "array": true, "bisect": true,
	"heapq": true, "operator": true, "types": true, "__future__": true,
	"concurrent": true, "signal": true, "platform": true, "secrets": true,
}

func isStdlib(topLevel string) bool {
	return stdlibModules[topLevel]
}
