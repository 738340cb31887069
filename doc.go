// Package gpsauth implements the Google Play Services login flow used by
// Android devices.
//
// A password is never sent in the clear. It is concatenated with the email,
// encrypted with RSA PKCS#1 v1.5 under a public key embedded in Play
// Services, prefixed with a five byte signature of that key and sent as
// URL-safe base64 in the EncryptedPasswd form field.
//
// Encrypting a credential:
//
//	encrypted, err := gpsauth.EncryptPassword("user@gmail.com", "hunter2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Logging in and exchanging the master token for a service token:
//
//	client, err := gpsauth.New(gpsauth.WithAndroidID("0123456789abcdef"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	master, err := client.MasterLogin(ctx, "user@gmail.com", "hunter2")
//	if errors.Is(err, gpsauth.ErrNeedsBrowser) {
//	    var apiErr *gpsauth.APIError
//	    errors.As(err, &apiErr)
//	    fmt.Println("Sign in at", apiErr.URL)
//	}
//
//	token, err := client.ExchangeToken(ctx, master.Email, master.Token, gpsauth.ServiceRequest{
//	    Service:   "oauth2:https://www.googleapis.com/auth/drive",
//	    App:       "com.google.android.apps.docs",
//	    ClientSig: "38918a453d07199354f8b19af05ec6562ced5788",
//	})
package gpsauth
