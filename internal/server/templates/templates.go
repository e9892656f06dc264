// Package templates renders the server-side pages. The site's real
// styling lives in static assets; these templates only produce the
// structure and data.
package templates

import (
	"html/template"
	"io"

	"github.com/nuriajuanca/casamiento/internal/database"
)

type HomeData struct {
	Title         string
	CoupleNames   string
	DateISO       string
	FormattedDate string
	VenueName     string
	VenueAddress  string
	VenueMapsURL  string
	GoogleCalURL  string
	Invited       bool
	InviteID      string
	InviteLabel   string
}

type Stats struct {
	Total       int
	Transfers   int
	ReturnEarly int
	ReturnLate  int
	Dietary     int
	Minors      int
}

type AdminData struct {
	Stats   Stats
	Rsvps   []database.RsvpResponse
	Links   []database.InvitationLink
	BaseURL string
}

var homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>{{.Title}}</title>
	<link rel="stylesheet" href="/static/style.css">
</head>
<body>
	<header class="hero">
		<h1>{{.CoupleNames}}</h1>
		<p class="date">{{.FormattedDate}}</p>
		<div id="countdown" data-date="{{.DateISO}}"></div>
	</header>
	<section class="venue">
		<h2>Lugar</h2>
		<p>{{.VenueName}}</p>
		<p>{{.VenueAddress}}</p>
		<p><a href="{{.VenueMapsURL}}">Ver en el mapa</a> · <a href="{{.GoogleCalURL}}">Google Calendar</a> · <a href="/calendar.ics">Agendar (.ics)</a></p>
	</section>
	<section class="dresscode">
		<h2>Dresscode</h2>
		<p>Elegante, al aire libre.</p>
	</section>
	{{if .Invited}}
	<section class="rsvp">
		<h2>Confirmá tu asistencia</h2>
		<p class="invite-label">Invitación: {{.InviteLabel}}</p>
		<form id="rsvp-form" method="post" action="/rsvp/submit">
			<input type="hidden" name="invite" value="{{.InviteID}}">
			<label>Nombre y apellido <input type="text" name="name" required></label>
			<label><input type="checkbox" name="is_minor"> Es menor de edad</label>
			<label>WhatsApp <input type="tel" name="whatsapp"></label>
			<label>Restricciones alimentarias <input type="text" name="dietary"></label>
			<fieldset>
				<legend>¿Necesitás traslado?</legend>
				<label><input type="radio" name="transfer" value="yes"> Sí</label>
				<label><input type="radio" name="transfer" value="no" checked> No</label>
			</fieldset>
			<fieldset>
				<legend>Horario de vuelta</legend>
				<label><input type="radio" name="return_time" value="temprano"> Temprano (00:00)</label>
				<label><input type="radio" name="return_time" value="tarde"> Tarde (04:30)</label>
			</fieldset>
			<label>Comentario <textarea name="comment"></textarea></label>
			<button type="submit">Confirmar</button>
		</form>
	</section>
	{{else}}
	<section class="rsvp">
		<p>Para confirmar tu asistencia, usá el enlace de invitación que recibiste.</p>
	</section>
	{{end}}
	<script src="/static/app.js"></script>
</body>
</html>
`))

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="utf-8">
	<title>Acceso de Administración</title>
</head>
<body>
	<h1>Panel de Administración</h1>
	{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
	<form method="post" action="/admin/login">
		<label>Contraseña <input type="password" name="password" required></label>
		<button type="submit">Ingresar</button>
	</form>
</body>
</html>
`))

var adminTmpl = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="utf-8">
	<title>Panel de Administración</title>
</head>
<body>
	<header>
		<h1>Panel de Administración</h1>
		<p><a href="/admin/confirmaciones.csv">Exportar CSV</a></p>
		<form method="post" action="/admin/logout"><button type="submit">Salir</button></form>
	</header>
	<section class="stats">
		<ul>
			<li>Confirmaciones: {{.Stats.Total}}</li>
			<li>Traslados: {{.Stats.Transfers}}</li>
			<li>Vuelta temprano: {{.Stats.ReturnEarly}}</li>
			<li>Vuelta tarde: {{.Stats.ReturnLate}}</li>
			<li>Con restricciones: {{.Stats.Dietary}}</li>
			<li>Menores: {{.Stats.Minors}}</li>
		</ul>
	</section>
	<section class="rsvps">
		<h2>Confirmaciones</h2>
		<table>
			<tr><th>Nombre</th><th>WhatsApp</th><th>Menor</th><th>Traslado</th><th>Vuelta</th><th>Restricciones</th><th>Comentario</th><th></th></tr>
			{{range .Rsvps}}
			<tr>
				<td>{{.Name}}</td>
				<td>{{with .Whatsapp}}{{.}}{{end}}</td>
				<td>{{if .IsMinor}}Sí{{else}}No{{end}}</td>
				<td>{{if .NeedsTransfer}}Sí{{else}}No{{end}}</td>
				<td>{{with .ReturnTime}}{{.}}{{end}}</td>
				<td>{{with .DietaryRequirements}}{{.}}{{end}}</td>
				<td>{{with .Comment}}{{.}}{{end}}</td>
				<td><button class="delete-rsvp" data-id="{{.ID}}">Eliminar</button></td>
			</tr>
			{{end}}
		</table>
	</section>
	<section class="links">
		<h2>Enlaces de invitación</h2>
		<form id="create-link">
			<input type="text" name="label" placeholder="Familia / grupo">
			<button type="submit">Crear enlace</button>
		</form>
		<table>
			<tr><th>Enlace</th><th>Etiqueta</th><th>Confirmaciones</th><th></th></tr>
			{{$base := .BaseURL}}
			{{range .Links}}
			<tr>
				<td><code>{{$base}}/?invite={{.ID}}</code></td>
				<td>{{.Label}}</td>
				<td>{{.RsvpCount}}</td>
				<td>
					<button class="rename-link" data-id="{{.ID}}" data-label="{{.Label}}">Renombrar</button>
					<button class="delete-link" data-id="{{.ID}}">Eliminar</button>
				</td>
			</tr>
			{{end}}
		</table>
	</section>
	<script src="/static/admin.js"></script>
</body>
</html>
`))

func Home(w io.Writer, data HomeData) error {
	return homeTmpl.Execute(w, data)
}

func AdminLogin(w io.Writer, errorMsg string) error {
	return loginTmpl.Execute(w, struct{ Error string }{Error: errorMsg})
}

func AdminDashboard(w io.Writer, data AdminData) error {
	return adminTmpl.Execute(w, data)
}
