package normalize

// spanishStopWords is the fixed stop-word list the matching pipeline was
// tuned against. Changing it changes which descriptions collide, so entries
// are kept as-is even where they look redundant.
var spanishStopWords = []string{
	"a", "acá", "ahí", "ajena", "ajenas", "ajeno", "ajenos", "al", "algo", "algún",
	"alguna", "algunas", "alguno", "algunos", "allá", "alli", "allí", "ambos", "ampleamos",
	"ante", "antes", "aquel", "aquella", "aquellas", "aquello", "aquellos", "aqui", "aquí",
	"arriba", "asi", "atras", "aun", "aunque", "bajo", "bastante", "bien", "cabe", "cada",
	"casi", "cierta", "ciertas", "cierto", "ciertos", "como", "cómo", "con", "conmigo",
	"conseguimos", "conseguir", "consigo", "consigue", "consiguen", "consigues", "contigo",
	"contra", "cual", "cuales", "cualquier", "cualquiera", "cualquieras", "cuan", "cuando",
	"cuanta", "cuantas", "cuanto", "cuantos", "de", "dejar", "del", "demas", "demasiada",
	"demasiadas", "demasiado", "demasiados", "dentro", "desde", "donde", "dos", "el", "él",
	"ella", "ellas", "ello", "ellos", "empleais", "emplean", "emplear", "empleas", "empleo",
	"en", "encima", "entonces", "entre", "era", "eramos", "eran", "eras", "eres", "es",
	"esa", "esas", "ese", "eso", "esos", "esta", "estaba", "estado", "estais", "estamos",
	"estan", "estoy", "fin", "fue", "fueron", "fui", "fuimos", "gueno", "ha", "hace",
	"haceis", "hacemos", "hacen", "hacer", "haces", "hago", "incluso", "intenta", "intentais",
	"intentamos", "intentan", "intentar", "intentas", "intento", "ir", "jamás", "junto",
	"juntos", "la", "largo", "las", "lo", "los", "mientras", "mio", "misma", "mismas",
	"mismo", "mismos", "modo", "mucha", "muchas", "muchísima", "muchísimas", "muchísimo",
	"muchísimos", "mucho", "muchos", "muy", "nada", "ni", "ninguna", "ningunas", "ninguno",
	"ningunos", "no", "nos", "nosotras", "nosotros", "nuestra", "nuestras", "nuestro",
	"nuestros", "nunca", "os", "otra", "otras", "otro", "otros", "para", "parecer", "pero",
	"poca", "pocas", "poco", "pocos", "podeis", "podemos", "poder", "podria", "podriais",
	"podriamos", "podrian", "podrias", "por", "por qué", "porque", "primero", "puede",
	"pueden", "puedo", "pues", "que", "qué", "querer", "quien", "quién", "quienes", "quienesquiera",
	"quienquiera", "quiza", "quizas", "sabe", "sabeis", "sabemos", "saben", "saber", "sabes",
	"se", "segun", "ser", "si", "sí", "siempre", "siendo", "sin", "sino", "so", "sobre",
	"sois", "solamente", "solo", "somos", "soy", "su", "sus", "suya", "suyas", "suyo",
	"suyos", "tal", "tales", "también", "tampoco", "tan", "tanta", "tantas", "tanto",
	"tantos", "te", "teneis", "tenemos", "tener", "tengo", "ti", "tiempo", "tiene", "tienen",
	"toda", "todas", "todo", "todos", "tomar", "trabaja", "trabajais", "trabajamos", "trabajan",
	"trabajar", "trabajas", "trabajo", "tras", "tú", "último", "un", "una", "unas", "uno",
	"unos", "usa", "usais", "usamos", "usan", "usar", "usas", "uso", "usted", "ustedes",
	"va", "vais", "valor", "vamos", "van", "varias", "varios", "vaya", "verdad", "verdadera",
	"vosotras", "vosotros", "voy", "vuestra", "vuestras", "vuestro", "vuestros", "y", "ya",
	"yo",
}

var stopWordSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(spanishStopWords))
	for _, w := range spanishStopWords {
		set[w] = struct{}{}
	}
	return set
}()
